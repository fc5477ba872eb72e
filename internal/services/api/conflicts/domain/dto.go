// Package domain holds DTOs for the conflicts http surface
package domain

import (
	"time"

	confdom "tandem/internal/services/conflict/domain"
)

// ScanInput re-checks one party's confirmed events against fresh
// calendar data
type ScanInput struct {
	PartyID     string `json:"party_id" validate:"required,uuid4" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
	HorizonDays int    `json:"horizon_days,omitempty" validate:"omitempty,min=1,max=90" example:"14"`
}

// SpanOut is one busy interval that collides with an event
type SpanOut struct {
	Start time.Time `json:"start" example:"2026-03-03T18:30:00Z"`
	End   time.Time `json:"end" example:"2026-03-03T19:30:00Z"`
}

// TransitionOut is one event whose conflict status flipped
type TransitionOut struct {
	EventID  string    `json:"event_id" example:"5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d"`
	PartyID  string    `json:"party_id" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
	From     string    `json:"from" example:"clear"`
	To       string    `json:"to" example:"conflicted"`
	Members  []string  `json:"members,omitempty" example:"user-a"`
	Overlaps []SpanOut `json:"overlaps,omitempty"`
}

// ReportOutput summarizes one scan
type ReportOutput struct {
	At          time.Time       `json:"at" example:"2026-03-02T08:00:00Z"`
	HorizonDays int             `json:"horizon_days" example:"14"`
	Events      int             `json:"events" example:"3"`
	Flagged     int             `json:"flagged" example:"1"`
	Transitions []TransitionOut `json:"transitions"`
}

// ReportOut converts a sweep report into the wire shape
func ReportOut(rep confdom.Report) ReportOutput {
	out := ReportOutput{
		At:          rep.At,
		HorizonDays: int(rep.Horizon / (24 * time.Hour)),
		Events:      rep.Events,
		Flagged:     rep.Flagged,
		Transitions: make([]TransitionOut, 0, len(rep.Transitions)),
	}
	for _, tr := range rep.Transitions {
		t := TransitionOut{
			EventID: tr.EventID,
			PartyID: tr.PartyID,
			From:    string(tr.From),
			To:      string(tr.To),
			Members: tr.Members,
		}
		for _, ov := range tr.Overlaps {
			t.Overlaps = append(t.Overlaps, SpanOut{Start: ov.Start, End: ov.End})
		}
		out.Transitions = append(out.Transitions, t)
	}
	return out
}
