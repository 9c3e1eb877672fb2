package schedule

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/confhub/server/internal/domain/schedule"
	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/outbound"
)

// Repository implements the schedule and conference database ports using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new schedule repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindEntryByID retrieves a schedule entry by ID.
func (r *Repository) FindEntryByID(ctx context.Context, id uuid.UUID) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindEntriesByConference lists all entries for a conference.
func (r *Repository) FindEntriesByConference(ctx context.Context, conferenceID uuid.UUID) ([]*model.ScheduleEntry, error) {
	var entries []*model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("conference_id = ?", conferenceID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveEntry saves the full entry record.
func (r *Repository) SaveEntry(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// FindByID retrieves a conference by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*model.Conference, error) {
	var conference model.Conference
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&conference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConferenceNotFound
		}
		return nil, err
	}
	return &conference, nil
}

// Compile-time interface checks
var (
	_ outbound.ScheduleDatabasePort   = (*Repository)(nil)
	_ outbound.ConferenceDatabasePort = (*Repository)(nil)
)
