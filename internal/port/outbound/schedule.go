package outbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/confhub/server/internal/model"
)

// ScheduleDatabasePort defines schedule entry persistence operations.
type ScheduleDatabasePort interface {
	// FindEntryByID retrieves a schedule entry by ID.
	FindEntryByID(ctx context.Context, id uuid.UUID) (*model.ScheduleEntry, error)

	// FindEntriesByConference lists all entries for a conference.
	FindEntriesByConference(ctx context.Context, conferenceID uuid.UUID) ([]*model.ScheduleEntry, error)

	// SaveEntry saves the full entry record.
	SaveEntry(ctx context.Context, entry *model.ScheduleEntry) error
}

// ConferenceDatabasePort defines conference persistence operations.
type ConferenceDatabasePort interface {
	// FindByID retrieves a conference by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Conference, error)
}
