package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Range bounds a search query, half open [Start, End)
type Range struct {
	Start time.Time
	End   time.Time
}

// Duration returns End minus Start
func (r Range) Duration() time.Duration { return r.End.Sub(r.Start) }

// Accepted duration band and the fixed cursor step between candidate starts
const (
	MinSlotDuration = 15 * time.Minute
	MaxSlotDuration = 12 * time.Hour
	CursorStep      = 30 * time.Minute
)

// Sentinel errors for query validation. Callers map these onto their own
// error taxonomy
var (
	ErrInvalidRange    = errors.New("schedule: range end not after start")
	ErrInvalidDuration = errors.New("schedule: duration outside accepted band")
)

// ValidateQuery checks a range and duration without doing any generation work
func ValidateQuery(rng Range, d time.Duration) error {
	if !rng.End.After(rng.Start) {
		return fmt.Errorf("%w: [%s, %s)", ErrInvalidRange,
			rng.Start.Format(time.RFC3339), rng.End.Format(time.RFC3339))
	}
	if d < MinSlotDuration || d > MaxSlotDuration {
		return fmt.Errorf("%w: %s not in [%s, %s]", ErrInvalidDuration,
			d, MinSlotDuration, MaxSlotDuration)
	}
	return nil
}

// Generate turns weekly preferences into concrete candidate slots of exactly
// duration d inside rng.
//
// The effective range is rng clamped to [now+MinAdvanceNotice,
// now+MaxAdvanceWindow]; an empty effective range yields no slots and no
// error. Within each projected window a cursor advances in CursorStep
// increments, emitting a slot whenever it still fits inside the window and
// does not overlap a projected commitment. Overlapping candidates are
// skipped, never truncated or shifted. Output is ascending by start
func Generate(now time.Time, rng Range, d time.Duration, prefs MergedPrefs) ([]TimeSlot, error) {
	if err := ValidateQuery(rng, d); err != nil {
		return nil, err
	}

	lo, hi := rng.Start, rng.End
	if prefs.MinAdvanceNotice > 0 {
		if t := now.Add(prefs.MinAdvanceNotice); t.After(lo) {
			lo = t
		}
	}
	if prefs.MaxAdvanceWindow > 0 {
		if t := now.Add(prefs.MaxAdvanceWindow); t.Before(hi) {
			hi = t
		}
	}
	if !hi.After(lo) {
		return nil, nil
	}

	var out []TimeSlot
	day := time.Date(lo.Year(), lo.Month(), lo.Day(), 0, 0, 0, 0, time.UTC)
	for ; day.Before(hi); day = day.AddDate(0, 0, 1) {
		wins := prefs.Windows[day.Weekday()]
		if len(wins) == 0 {
			continue
		}
		if len(wins) > 1 {
			ordered := make([]DayWindow, len(wins))
			copy(ordered, wins)
			sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })
			wins = ordered
		}

		busy := commitmentsOn(prefs.Commitments, day)

		for _, w := range wins {
			win := w.On(day)
			for cur := win.Start; !cur.Add(d).After(win.End); cur = cur.Add(CursorStep) {
				slot := Interval{Start: cur, End: cur.Add(d)}
				if slot.Start.Before(lo) || slot.End.After(hi) {
					continue
				}
				if overlapsAny(slot, busy) {
					continue
				}
				out = append(out, TimeSlot{Start: slot.Start, End: slot.End})
			}
		}
	}
	return out, nil
}
