// Package domain holds DTOs for the availability http surface
package domain

import (
	"time"

	"tandem/internal/core/schedule"
	availdom "tandem/internal/services/availability/domain"
)

// SearchInput asks for mutual open slots between two parties
type SearchInput struct {
	PartyA          string    `json:"party_a" validate:"required,uuid4" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
	PartyB          string    `json:"party_b" validate:"required,uuid4" example:"2c1b0a9f-8e7d-4c6b-a5f4-3e2d1c0b9a8f"`
	Start           time.Time `json:"start" validate:"required" example:"2026-03-02T00:00:00Z"`
	End             time.Time `json:"end" validate:"required" example:"2026-03-09T00:00:00Z"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=1" example:"90"`
}

// Query converts the wire shape into the engine query
func (in SearchInput) Query() availdom.Query {
	return availdom.Query{
		PartyA:   in.PartyA,
		PartyB:   in.PartyB,
		Range:    schedule.Range{Start: in.Start, End: in.End},
		Duration: time.Duration(in.DurationMinutes) * time.Minute,
	}
}

// SlotOut is one open slot on the wire
type SlotOut struct {
	Start  time.Time `json:"start" example:"2026-03-03T18:00:00Z"`
	End    time.Time `json:"end" example:"2026-03-03T19:30:00Z"`
	Rating string    `json:"rating" example:"excellent"`
}

// SearchOutput returns the ranked open slots for the window
type SearchOutput struct {
	Slots           []SlotOut `json:"slots"`
	CalendarChecked bool      `json:"calendar_checked" example:"true"`
}

// SuggestionOut is one fallback slot and the strategy that found it
type SuggestionOut struct {
	Start    time.Time `json:"start" example:"2026-03-04T20:00:00Z"`
	End      time.Time `json:"end" example:"2026-03-04T20:30:00Z"`
	Rating   string    `json:"rating" example:"good"`
	Strategy string    `json:"strategy" example:"shorter"`
}

// SuggestOutput returns the fallback ladder results
type SuggestOutput struct {
	Suggestions []SuggestionOut `json:"suggestions"`
}

// SearchOut converts an engine result into the wire shape
func SearchOut(res availdom.Result) SearchOutput {
	out := SearchOutput{
		Slots:           make([]SlotOut, 0, len(res.Slots)),
		CalendarChecked: res.CalendarChecked,
	}
	for _, s := range res.Slots {
		out.Slots = append(out.Slots, SlotOut{
			Start:  s.Start,
			End:    s.End,
			Rating: s.Rating.String(),
		})
	}
	return out
}

// SuggestOut converts engine suggestions into the wire shape
func SuggestOut(sugs []availdom.Suggestion) SuggestOutput {
	out := SuggestOutput{Suggestions: make([]SuggestionOut, 0, len(sugs))}
	for _, s := range sugs {
		out.Suggestions = append(out.Suggestions, SuggestionOut{
			Start:    s.Slot.Start,
			End:      s.Slot.End,
			Rating:   s.Slot.Rating.String(),
			Strategy: s.Strategy,
		})
	}
	return out
}
