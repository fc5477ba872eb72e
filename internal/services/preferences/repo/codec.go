package repo

// Stored form of the two jsonb columns. Window bounds are minutes from
// midnight so rows stay timezone free

import (
	"encoding/json"
	"sort"

	"tandem/internal/core/schedule"
	perr "tandem/internal/platform/errors"
	"tandem/internal/services/preferences/domain"
)

type storedWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type storedCommitment struct {
	Weekday string `json:"weekday"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Label   string `json:"label,omitempty"`
}

func encodeWindows(w schedule.WeeklyWindows) ([]byte, error) {
	out := make(map[string][]storedWindow, len(w))
	for wd, wins := range w {
		sw := make([]storedWindow, 0, len(wins))
		for _, win := range wins {
			sw = append(sw, storedWindow{Start: int(win.Start), End: int(win.End)})
		}
		out[domain.KeyFromWeekday(wd)] = sw
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, perr.JSONErrf("encode windows: %v", err)
	}
	return raw, nil
}

func decodeWindows(raw []byte) (schedule.WeeklyWindows, error) {
	var stored map[string][]storedWindow
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, perr.JSONErrf("decode windows: %v", err)
	}
	out := make(schedule.WeeklyWindows, len(stored))
	for key, wins := range stored {
		wd, ok := domain.WeekdayFromKey(key)
		if !ok {
			return nil, perr.JSONErrf("stored windows carry unknown weekday key %q", key)
		}
		dws := make([]schedule.DayWindow, 0, len(wins))
		for _, w := range wins {
			dws = append(dws, schedule.DayWindow{
				Start: schedule.MinuteOfDay(w.Start),
				End:   schedule.MinuteOfDay(w.End),
			})
		}
		sort.Slice(dws, func(i, j int) bool { return dws[i].Start < dws[j].Start })
		out[wd] = dws
	}
	return out, nil
}

func encodeCommitments(cs []schedule.Commitment) ([]byte, error) {
	out := make([]storedCommitment, 0, len(cs))
	for _, c := range cs {
		out = append(out, storedCommitment{
			Weekday: domain.KeyFromWeekday(c.Weekday),
			Start:   int(c.Window.Start),
			End:     int(c.Window.End),
			Label:   c.Label,
		})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, perr.JSONErrf("encode commitments: %v", err)
	}
	return raw, nil
}

func decodeCommitments(raw []byte) ([]schedule.Commitment, error) {
	var stored []storedCommitment
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, perr.JSONErrf("decode commitments: %v", err)
	}
	var out []schedule.Commitment
	for _, c := range stored {
		wd, ok := domain.WeekdayFromKey(c.Weekday)
		if !ok {
			return nil, perr.JSONErrf("stored commitments carry unknown weekday key %q", c.Weekday)
		}
		out = append(out, schedule.Commitment{
			Weekday: wd,
			Window: schedule.DayWindow{
				Start: schedule.MinuteOfDay(c.Start),
				End:   schedule.MinuteOfDay(c.End),
			},
			Label: c.Label,
		})
	}
	return out, nil
}
