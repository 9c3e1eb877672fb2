package model

import (
	"github.com/google/uuid"
)

// ScheduleEntryStatus represents the status of a schedule entry.
type ScheduleEntryStatus string

const (
	ScheduleEntryStatusDraft     ScheduleEntryStatus = "draft"
	ScheduleEntryStatusScheduled ScheduleEntryStatus = "scheduled"
)

// ScheduleEntry represents a room/time booking for presenting a paper.
// Timestamps are kept as the client-supplied strings; the schedule domain
// parses them tolerantly during validation. An entry with a nil room or
// timestamp is unscheduled.
type ScheduleEntry struct {
	ID           uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConferenceID uuid.UUID           `json:"conference_id" gorm:"type:uuid;not null"`
	PaperID      uuid.UUID           `json:"paper_id" gorm:"type:uuid;not null"`
	PaperTitle   string              `json:"paper_title"`
	RoomID       *string             `json:"room_id,omitempty"`
	RoomName     string              `json:"room_name,omitempty"`
	StartTime    *string             `json:"start_time,omitempty"`
	EndTime      *string             `json:"end_time,omitempty"`
	Status       ScheduleEntryStatus `json:"status" gorm:"not null;default:draft"`
}

// TableName returns the database table name.
func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}

// IsScheduled returns true if the entry has a room and both timestamps.
func (e *ScheduleEntry) IsScheduled() bool {
	return e.RoomID != nil && *e.RoomID != "" && e.StartTime != nil && e.EndTime != nil
}

// Conference represents a conference and its presentation time window.
// A nil window bound disables the corresponding window check.
type Conference struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	WindowStart *string   `json:"window_start,omitempty"`
	WindowEnd   *string   `json:"window_end,omitempty"`
}

// TableName returns the database table name.
func (Conference) TableName() string {
	return "conferences"
}
