// Package domain holds DTOs for the events http surface
package domain

import (
	"sort"
	"time"

	"tandem/internal/core/schedule"
	evdom "tandem/internal/services/events/domain"
)

// BookInput books one confirmed event for a party
type BookInput struct {
	PartyID string    `json:"party_id" validate:"required,uuid4" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
	Start   time.Time `json:"start" validate:"required" example:"2026-03-03T18:00:00Z"`
	End     time.Time `json:"end" validate:"required" example:"2026-03-03T19:30:00Z"`
	Title   string    `json:"title,omitempty" validate:"omitempty,max=200" example:"date night"`

	// Mirror pushes the booking onto each member's external calendars
	Mirror bool `json:"mirror" example:"true"`
}

// Cmd converts the wire shape into the booking command
func (in BookInput) Cmd() evdom.BookCmd {
	return evdom.BookCmd{
		PartyID: in.PartyID,
		Slot:    schedule.TimeSlot{Start: in.Start, End: in.End},
		Title:   in.Title,
		Mirror:  in.Mirror,
	}
}

// CancelInput cancels one booked event
type CancelInput struct {
	EventID string `json:"event_id" validate:"required,uuid4" example:"5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d"`
}

// UpcomingInput lists a party's confirmed events inside the horizon
type UpcomingInput struct {
	PartyID     string `json:"party_id" validate:"required,uuid4" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
	HorizonDays int    `json:"horizon_days,omitempty" validate:"omitempty,min=1,max=90" example:"14"`
}

// EventOutput is one scheduled event on the wire
type EventOutput struct {
	ID             string    `json:"id" example:"5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d"`
	PartyID        string    `json:"party_id" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
	Start          time.Time `json:"start" example:"2026-03-03T18:00:00Z"`
	End            time.Time `json:"end" example:"2026-03-03T19:30:00Z"`
	Title          string    `json:"title,omitempty" example:"date night"`
	Status         string    `json:"status" example:"confirmed"`
	ConflictStatus string    `json:"conflict_status" example:"clear"`
	Mirrored       []string  `json:"mirrored,omitempty" example:"user-a/google"`
	Version        int       `json:"version" example:"1"`
}

// EventOut converts a stored event into the wire shape
func EventOut(ev evdom.Event) EventOutput {
	out := EventOutput{
		ID:             ev.ID,
		PartyID:        ev.PartyID,
		Start:          ev.StartsAt,
		End:            ev.EndsAt,
		Title:          ev.Title,
		Status:         ev.Status,
		ConflictStatus: string(ev.ConflictStatus),
		Version:        ev.Version,
	}
	for key := range ev.ProviderRefs {
		out.Mirrored = append(out.Mirrored, key)
	}
	sort.Strings(out.Mirrored)
	return out
}

// EventsOut converts a list of stored events into the wire shape
func EventsOut(evs []evdom.Event) []EventOutput {
	out := make([]EventOutput, 0, len(evs))
	for _, ev := range evs {
		out = append(out, EventOut(ev))
	}
	return out
}
