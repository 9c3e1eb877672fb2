package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/confhub/server/internal/model"
)

// Domain errors for the schedule module.
var (
	// Business rejections
	ErrEntryNotFound      = errors.New("schedule entry not found")
	ErrConferenceNotFound = errors.New("conference not found")
	ErrOutsideWindow      = errors.New("entry is outside the conference time window")
	ErrRoomConflict       = errors.New("room is already booked for that interval")
	ErrDuplicatePaper     = errors.New("paper is already scheduled in another entry")

	// Input validation
	ErrUnscheduled = errors.New("entry is missing room or timestamps")
	ErrInvalidTime = errors.New("entry timestamps are invalid")

	// Infrastructure failures
	ErrScheduleStoreFailed = errors.New("schedule store access failed")
)

// RoomConflictError reports the first entry colliding with the edited one.
// It matches ErrRoomConflict under errors.Is.
type RoomConflictError struct {
	Entry *model.ScheduleEntry
}

// Error implements the error interface.
func (e *RoomConflictError) Error() string {
	return fmt.Sprintf("room is already booked for that interval by entry %s", e.Entry.ID)
}

// Unwrap returns the sentinel conflict error.
func (e *RoomConflictError) Unwrap() error {
	return ErrRoomConflict
}

// WindowError reports the conference window an edit fell outside of.
// It matches ErrOutsideWindow under errors.Is.
type WindowError struct {
	Start time.Time
	End   time.Time
}

// Error implements the error interface.
func (e *WindowError) Error() string {
	return fmt.Sprintf("entry is outside the conference time window [%s, %s]",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Unwrap returns the sentinel window error.
func (e *WindowError) Unwrap() error {
	return ErrOutsideWindow
}
