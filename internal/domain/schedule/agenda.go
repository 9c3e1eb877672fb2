package schedule

import (
	"sort"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/inbound"
)

// BuildAgenda groups schedule entries by room for display. This is a
// read-only projection, not authoritative schedule state. An entry counts
// as scheduled only when its status says so and it has a room and both
// timestamps; everything else lands in the unscheduled bucket. Rooms are
// sorted alphabetically; within a room, items sort ascending by start time,
// items with unparseable start times sort after all parseable ones, and
// two unparseable items keep their relative order.
func BuildAgenda(entries []*model.ScheduleEntry) *inbound.AgendaOutput {
	byRoom := make(map[string][]inbound.AgendaItem)
	unscheduled := make([]inbound.AgendaItem, 0)

	for _, entry := range entries {
		if entry == nil {
			continue
		}
		item := toAgendaItem(entry)
		if entry.Status == model.ScheduleEntryStatusScheduled && entry.IsScheduled() {
			room := entry.RoomName
			if room == "" {
				room = *entry.RoomID
			}
			item.Room = room
			byRoom[room] = append(byRoom[room], item)
		} else {
			unscheduled = append(unscheduled, item)
		}
	}

	rooms := make([]string, 0, len(byRoom))
	for room := range byRoom {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	out := &inbound.AgendaOutput{
		Rooms:       make([]inbound.RoomAgenda, 0, len(rooms)),
		Unscheduled: unscheduled,
	}

	for _, room := range rooms {
		items := byRoom[room]
		sort.SliceStable(items, func(i, j int) bool {
			si, oki := parseEntryTime(items[i].StartTime)
			sj, okj := parseEntryTime(items[j].StartTime)
			if oki && okj {
				return si.Before(sj)
			}
			if oki != okj {
				return oki
			}
			return false
		})
		out.Rooms = append(out.Rooms, inbound.RoomAgenda{Room: room, Items: items})
	}

	return out
}

func toAgendaItem(entry *model.ScheduleEntry) inbound.AgendaItem {
	item := inbound.AgendaItem{
		EntryID:    entry.ID,
		PaperID:    entry.PaperID,
		PaperTitle: entry.PaperTitle,
	}
	if entry.StartTime != nil {
		item.StartTime = *entry.StartTime
	}
	if entry.EndTime != nil {
		item.EndTime = *entry.EndTime
	}
	return item
}
