package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/confhub/server/internal/model"
)

// ScheduleEntryUpdate carries the fields of a proposed schedule entry edit.
// Nil fields leave the current value untouched.
type ScheduleEntryUpdate struct {
	RoomID    *string `json:"room_id,omitempty"`
	RoomName  *string `json:"room_name,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// AgendaItem is a schedule entry projected for display.
type AgendaItem struct {
	EntryID    uuid.UUID `json:"entry_id"`
	PaperID    uuid.UUID `json:"paper_id"`
	PaperTitle string    `json:"paper_title"`
	Room       string    `json:"room,omitempty"`
	StartTime  string    `json:"start_time,omitempty"`
	EndTime    string    `json:"end_time,omitempty"`
}

// RoomAgenda groups agenda items by room.
type RoomAgenda struct {
	Room  string       `json:"room"`
	Items []AgendaItem `json:"items"`
}

// AgendaOutput is the read projection of a conference schedule.
type AgendaOutput struct {
	Rooms       []RoomAgenda `json:"rooms"`
	Unscheduled []AgendaItem `json:"unscheduled"`
}

// ScheduleDomain defines the schedule validation domain service interface.
type ScheduleDomain interface {
	// ValidateEdit validates a proposed entry edit against the conference
	// window and the rest of the schedule, and persists it when valid.
	ValidateEdit(ctx context.Context, entryID uuid.UUID, updates *ScheduleEntryUpdate) (*model.ScheduleEntry, error)

	// Agenda builds the room-grouped schedule projection for a conference.
	Agenda(ctx context.Context, conferenceID uuid.UUID) (*AgendaOutput, error)
}
