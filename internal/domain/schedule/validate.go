package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/inbound"
	"github.com/confhub/server/internal/port/outbound"
)

// TimeWindow bounds the interval in which conference entries may be placed.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// ValidateEdit validates a proposed edit of entry against the rest of the
// schedule. Checks run in order: unscheduled fields, timestamp parsing,
// conference window (boundary-inclusive), per-room interval overlap, and
// duplicate-paper booking. The edited entry is excluded from both scans by
// ID. Entries whose timestamps are absent or unparseable are skipped during
// the conflict scan rather than treated as errors. On success the merged
// entry is returned with status set to scheduled.
func ValidateEdit(entry *model.ScheduleEntry, updates *inbound.ScheduleEntryUpdate, entries []*model.ScheduleEntry, window *TimeWindow) (*model.ScheduleEntry, error) {
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	next := *entry
	if updates != nil {
		if updates.RoomID != nil {
			next.RoomID = updates.RoomID
		}
		if updates.RoomName != nil {
			next.RoomName = *updates.RoomName
		}
		if updates.StartTime != nil {
			next.StartTime = updates.StartTime
		}
		if updates.EndTime != nil {
			next.EndTime = updates.EndTime
		}
	}

	if !next.IsScheduled() {
		return nil, ErrUnscheduled
	}

	start, ok := parseEntryTime(*next.StartTime)
	if !ok {
		return nil, ErrInvalidTime
	}
	end, ok := parseEntryTime(*next.EndTime)
	if !ok {
		return nil, ErrInvalidTime
	}
	if !start.Before(end) {
		return nil, ErrInvalidTime
	}

	if window != nil {
		// Entries exactly at the window edges are allowed.
		if start.Before(window.Start) || end.After(window.End) {
			return nil, &WindowError{Start: window.Start, End: window.End}
		}
	}

	for _, other := range entries {
		if other == nil || other.ID == entry.ID {
			continue
		}
		if other.RoomID == nil || *other.RoomID != *next.RoomID {
			continue
		}
		otherStart, ok := parseOptionalEntryTime(other.StartTime)
		if !ok {
			continue
		}
		otherEnd, ok := parseOptionalEntryTime(other.EndTime)
		if !ok {
			continue
		}
		// Half-open interval overlap: [start, end) vs [otherStart, otherEnd).
		if start.Before(otherEnd) && end.After(otherStart) {
			return nil, &RoomConflictError{Entry: other}
		}
	}

	for _, other := range entries {
		if other == nil || other.ID == entry.ID {
			continue
		}
		if other.PaperID == next.PaperID {
			return nil, ErrDuplicatePaper
		}
	}

	next.Status = model.ScheduleEntryStatusScheduled
	return &next, nil
}

// resolveWindow derives the conference time window. The window check is
// disabled unless both bounds are present and parseable.
func resolveWindow(conference *model.Conference) *TimeWindow {
	if conference == nil || conference.WindowStart == nil || conference.WindowEnd == nil {
		return nil
	}
	start, ok := parseEntryTime(*conference.WindowStart)
	if !ok {
		return nil
	}
	end, ok := parseEntryTime(*conference.WindowEnd)
	if !ok {
		return nil
	}
	return &TimeWindow{Start: start, End: end}
}

// Service implements the schedule validation domain logic.
type Service struct {
	scheduleDB   outbound.ScheduleDatabasePort
	conferenceDB outbound.ConferenceDatabasePort
	logger       *zap.Logger
}

// NewService creates a new schedule service.
func NewService(
	scheduleDB outbound.ScheduleDatabasePort,
	conferenceDB outbound.ConferenceDatabasePort,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scheduleDB:   scheduleDB,
		conferenceDB: conferenceDB,
		logger:       logger,
	}
}

// ValidateEdit validates a proposed entry edit and persists it when valid.
func (s *Service) ValidateEdit(ctx context.Context, entryID uuid.UUID, updates *inbound.ScheduleEntryUpdate) (*model.ScheduleEntry, error) {
	entry, err := s.scheduleDB.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrScheduleStoreFailed, err)
	}

	entries, err := s.scheduleDB.FindEntriesByConference(ctx, entry.ConferenceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleStoreFailed, err)
	}

	var window *TimeWindow
	conference, err := s.conferenceDB.FindByID(ctx, entry.ConferenceID)
	if err != nil {
		if !errors.Is(err, ErrConferenceNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrScheduleStoreFailed, err)
		}
	} else {
		window = resolveWindow(conference)
	}

	next, err := ValidateEdit(entry, updates, entries, window)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleDB.SaveEntry(ctx, next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleStoreFailed, err)
	}

	s.logger.Info("schedule entry updated",
		zap.String("entry_id", next.ID.String()),
		zap.String("paper_id", next.PaperID.String()),
		zap.String("room_id", *next.RoomID),
	)

	return next, nil
}

// Agenda builds the room-grouped schedule projection for a conference.
func (s *Service) Agenda(ctx context.Context, conferenceID uuid.UUID) (*inbound.AgendaOutput, error) {
	entries, err := s.scheduleDB.FindEntriesByConference(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleStoreFailed, err)
	}
	return BuildAgenda(entries), nil
}

// Compile-time interface check
var _ inbound.ScheduleDomain = (*Service)(nil)
