// Package domain holds DTOs for the preferences http surface
package domain

import (
	"fmt"
	"time"

	"tandem/internal/core/schedule"
	perr "tandem/internal/platform/errors"
	prefdom "tandem/internal/services/preferences/domain"
)

// ShowInput names the party whose preference set to return
type ShowInput struct {
	PartyID string `json:"party_id" validate:"required,uuid4" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
}

// WindowDTO is one open window inside a day, half open [start, end)
// 24:00 is accepted as an exclusive end of day
type WindowDTO struct {
	Start string `json:"start" validate:"required,hhmm" example:"09:00"`
	End   string `json:"end"   validate:"required,hhmm" example:"17:30"`
}

// CommitmentDTO is one weekly recurring block carved out of the windows
type CommitmentDTO struct {
	Weekday string    `json:"weekday" validate:"required,weekday" example:"tue"`
	Window  WindowDTO `json:"window"`
	Label   string    `json:"label,omitempty" validate:"omitempty,max=120" example:"gym"`
}

// UpdateInput replaces a party's preference set
// expected_version must match the stored version, zero for the first save
type UpdateInput struct {
	PartyID                 string                 `json:"party_id" validate:"required,uuid4" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"` //nolint:lll
	Windows                 map[string][]WindowDTO `json:"windows" validate:"omitempty,dive,dive"`
	Commitments             []CommitmentDTO        `json:"commitments,omitempty" validate:"omitempty,dive"`
	MinAdvanceNoticeMinutes int                    `json:"min_advance_notice_minutes" validate:"min=0" example:"1440"`
	MaxAdvanceWindowDays    int                    `json:"max_advance_window_days" validate:"required,min=1,max=365" example:"90"`
	RequireAllMembersFree   bool                   `json:"require_all_members_free" example:"true"`
	UseExternalCalendars    bool                   `json:"use_external_calendars" example:"true"`
	ExpectedVersion         int                    `json:"expected_version" validate:"min=0" example:"3"`
}

// Prefs converts the wire shape into the stored preference set
func (in UpdateInput) Prefs() (prefdom.Prefs, error) {
	windows := make(schedule.WeeklyWindows, len(in.Windows))
	for key, wins := range in.Windows {
		day, ok := prefdom.WeekdayFromKey(key)
		if !ok {
			return prefdom.Prefs{}, perr.InvalidArgf("unknown weekday key %q", key)
		}
		dws := make([]schedule.DayWindow, 0, len(wins))
		for _, w := range wins {
			dw, err := w.window()
			if err != nil {
				return prefdom.Prefs{}, err
			}
			dws = append(dws, dw)
		}
		windows[day] = dws
	}

	commitments := make([]schedule.Commitment, 0, len(in.Commitments))
	for _, c := range in.Commitments {
		day, ok := prefdom.WeekdayFromKey(c.Weekday)
		if !ok {
			return prefdom.Prefs{}, perr.InvalidArgf("unknown weekday key %q", c.Weekday)
		}
		dw, err := c.Window.window()
		if err != nil {
			return prefdom.Prefs{}, err
		}
		commitments = append(commitments, schedule.Commitment{Weekday: day, Window: dw, Label: c.Label})
	}

	return prefdom.Prefs{
		Windows:               windows,
		Commitments:           commitments,
		MinAdvanceNotice:      time.Duration(in.MinAdvanceNoticeMinutes) * time.Minute,
		MaxAdvanceWindow:      time.Duration(in.MaxAdvanceWindowDays) * 24 * time.Hour,
		RequireAllMembersFree: in.RequireAllMembersFree,
		UseExternalCalendars:  in.UseExternalCalendars,
	}, nil
}

// PrefsOutput is a party's effective preference set on the wire
type PrefsOutput struct {
	PartyID                 string                 `json:"party_id"`
	Windows                 map[string][]WindowDTO `json:"windows"`
	Commitments             []CommitmentDTO        `json:"commitments,omitempty"`
	MinAdvanceNoticeMinutes int                    `json:"min_advance_notice_minutes" example:"1440"`
	MaxAdvanceWindowDays    int                    `json:"max_advance_window_days" example:"90"`
	RequireAllMembersFree   bool                   `json:"require_all_members_free" example:"true"`
	UseExternalCalendars    bool                   `json:"use_external_calendars" example:"true"`
	Version                 int                    `json:"version" example:"3"`
	UpdatedAtUnix           int64                  `json:"updated_at_unix,omitempty" example:"1767225600"`
}

// PrefsOut converts a stored preference set into the wire shape
func PrefsOut(partyID string, p prefdom.Prefs) PrefsOutput {
	windows := make(map[string][]WindowDTO, len(p.Windows))
	for day, wins := range p.Windows {
		key := prefdom.KeyFromWeekday(day)
		dtos := make([]WindowDTO, 0, len(wins))
		for _, w := range wins {
			dtos = append(dtos, windowOut(w))
		}
		windows[key] = dtos
	}

	var commitments []CommitmentDTO
	for _, c := range p.Commitments {
		commitments = append(commitments, CommitmentDTO{
			Weekday: prefdom.KeyFromWeekday(c.Weekday),
			Window:  windowOut(c.Window),
			Label:   c.Label,
		})
	}

	out := PrefsOutput{
		PartyID:                 partyID,
		Windows:                 windows,
		Commitments:             commitments,
		MinAdvanceNoticeMinutes: int(p.MinAdvanceNotice / time.Minute),
		MaxAdvanceWindowDays:    int(p.MaxAdvanceWindow / (24 * time.Hour)),
		RequireAllMembersFree:   p.RequireAllMembersFree,
		UseExternalCalendars:    p.UseExternalCalendars,
		Version:                 p.Version,
	}
	if !p.UpdatedAt.IsZero() {
		out.UpdatedAtUnix = p.UpdatedAt.Unix()
	}
	return out
}

// window parses the HH:MM pair into day minutes
func (w WindowDTO) window() (schedule.DayWindow, error) {
	start, err := parseHHMM(w.Start)
	if err != nil {
		return schedule.DayWindow{}, err
	}
	end, err := parseHHMM(w.End)
	if err != nil {
		return schedule.DayWindow{}, err
	}
	return schedule.DayWindow{Start: start, End: end}, nil
}

func windowOut(w schedule.DayWindow) WindowDTO {
	return WindowDTO{Start: formatHHMM(w.Start), End: formatHHMM(w.End)}
}

// parseHHMM converts an HH:MM wall clock string into minutes from
// midnight. 24:00 maps to the exclusive end of day
func parseHHMM(s string) (schedule.MinuteOfDay, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, perr.InvalidArgf("malformed wall clock time %q, want HH:MM", s)
	}
	m := schedule.MinuteOfDay(hh*60 + mm)
	if hh < 0 || mm < 0 || mm > 59 || m > schedule.MinutesPerDay {
		return 0, perr.InvalidArgf("wall clock time %q outside the day", s)
	}
	return m, nil
}

func formatHHMM(m schedule.MinuteOfDay) string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}
