package schedule

import (
	"errors"
	"testing"
	"time"
)

// allWeek opens every weekday for the given window
func allWeek(w DayWindow) WeeklyWindows {
	out := make(WeeklyWindows, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out[d] = []DayWindow{w}
	}
	return out
}

func TestValidateQuery(t *testing.T) {
	ok := Range{Start: hm(9, 0), End: hm(17, 0)}

	tests := []struct {
		name string
		rng  Range
		d    time.Duration
		want error
	}{
		{"valid", ok, time.Hour, nil},
		{"end equals start", Range{Start: hm(9, 0), End: hm(9, 0)}, time.Hour, ErrInvalidRange},
		{"end before start", Range{Start: hm(17, 0), End: hm(9, 0)}, time.Hour, ErrInvalidRange},
		{"too short", ok, 10 * time.Minute, ErrInvalidDuration},
		{"too long", ok, 13 * time.Hour, ErrInvalidDuration},
		{"lower bound ok", ok, MinSlotDuration, nil},
		{"upper bound ok", Range{Start: base, End: base.AddDate(0, 0, 2)}, MaxSlotDuration, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.rng, tt.d)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v want %v", err, tt.want)
			}
		})
	}
}

func TestGenerate_InvalidInputFailsBeforeWork(t *testing.T) {
	prefs := MergedPrefs{Windows: allWeek(DayWindow{Start: 0, End: 1440})}

	_, err := Generate(base, Range{Start: hm(17, 0), End: hm(9, 0)}, time.Hour, prefs)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	_, err = Generate(base, Range{Start: hm(9, 0), End: hm(17, 0)}, 5*time.Minute, prefs)
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

// One Tuesday window 09:00-12:00, duration 60m, range spanning two Tuesdays.
// Expect the 30 minute stepped ladder on each Tuesday and nothing else
func TestGenerate_TuesdayLadder(t *testing.T) {
	now := base.AddDate(0, 0, -1) // Sunday before the base Monday
	tue := base.AddDate(0, 0, 1)  // 2026-03-03

	prefs := MergedPrefs{
		Windows: WeeklyWindows{
			time.Tuesday: {{Start: 9 * 60, End: 12 * 60}},
		},
		MinAdvanceNotice: 24 * time.Hour,
		MaxAdvanceWindow: 90 * 24 * time.Hour,
	}
	rng := Range{Start: tue, End: tue.AddDate(0, 0, 8)} // through the following Tuesday

	slots, err := Generate(now, rng, time.Hour, prefs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	wantStarts := []time.Time{
		tue.Add(9 * time.Hour), tue.Add(9*time.Hour + 30*time.Minute),
		tue.Add(10 * time.Hour), tue.Add(10*time.Hour + 30*time.Minute),
		tue.Add(11 * time.Hour),
	}
	nextTue := tue.AddDate(0, 0, 7)
	for i := 0; i < 5; i++ {
		wantStarts = append(wantStarts, nextTue.Add(wantStarts[i].Sub(tue)))
	}

	if len(slots) != len(wantStarts) {
		t.Fatalf("got %d slots want %d: %v", len(slots), len(wantStarts), slots)
	}
	for i, s := range slots {
		if !s.Start.Equal(wantStarts[i]) {
			t.Fatalf("slot[%d].Start = %v want %v", i, s.Start, wantStarts[i])
		}
		if s.Duration() != time.Hour {
			t.Fatalf("slot[%d] duration = %v want 1h", i, s.Duration())
		}
		if wd := s.Start.Weekday(); wd != time.Tuesday {
			t.Fatalf("slot[%d] on %v, want Tuesday", i, wd)
		}
	}
}

func TestGenerate_CommitmentSkipsNotTruncates(t *testing.T) {
	now := base.AddDate(0, 0, -2)
	prefs := MergedPrefs{
		Windows: WeeklyWindows{
			time.Monday: {{Start: 9 * 60, End: 17 * 60}},
		},
		Commitments: []Commitment{
			{Weekday: time.Monday, Window: DayWindow{Start: 12 * 60, End: 13 * 60}, Label: "lunch"},
		},
	}
	rng := Range{Start: base, End: base.AddDate(0, 0, 1)}

	slots, err := Generate(now, rng, time.Hour, prefs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(slots) == 0 {
		t.Fatalf("expected slots")
	}

	commitment := ivl(12, 0, 13, 0)
	for _, s := range slots {
		if Overlaps(s.Interval(), commitment) {
			t.Fatalf("slot %v overlaps the commitment", s)
		}
		if s.Duration() != time.Hour {
			t.Fatalf("slot %v was truncated", s)
		}
	}

	// the 11:00 slot touches the commitment start and must survive,
	// the 13:00 slot touches its end and must survive
	var saw11, saw13 bool
	for _, s := range slots {
		if s.Start.Equal(hm(11, 0)) {
			saw11 = true
		}
		if s.Start.Equal(hm(13, 0)) {
			saw13 = true
		}
		if s.Start.Equal(hm(11, 30)) || s.Start.Equal(hm(12, 0)) || s.Start.Equal(hm(12, 30)) {
			t.Fatalf("slot %v should have been skipped", s)
		}
	}
	if !saw11 || !saw13 {
		t.Fatalf("touching slots missing: 11:00=%v 13:00=%v", saw11, saw13)
	}
}

func TestGenerate_ClampToNoticeAndHorizon(t *testing.T) {
	now := base // Monday 00:00
	prefs := MergedPrefs{
		Windows:          allWeek(DayWindow{Start: 0, End: 1440}),
		MinAdvanceNotice: 24 * time.Hour,
		MaxAdvanceWindow: 48 * time.Hour,
	}
	// a week requested, but notice+horizon leave only [Tue 00:00, Wed 00:00)
	rng := Range{Start: base, End: base.AddDate(0, 0, 7)}

	slots, err := Generate(now, rng, time.Hour, prefs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	lo := base.AddDate(0, 0, 1)
	hi := base.AddDate(0, 0, 2)
	if len(slots) == 0 {
		t.Fatalf("expected slots inside the clamped window")
	}
	for _, s := range slots {
		if s.Start.Before(lo) || s.End.After(hi) {
			t.Fatalf("slot %v escapes clamp [%v, %v]", s, lo, hi)
		}
	}
}

func TestGenerate_EmptyAfterClampIsNotAnError(t *testing.T) {
	now := base
	prefs := MergedPrefs{
		Windows:          allWeek(DayWindow{Start: 9 * 60, End: 17 * 60}),
		MinAdvanceNotice: 14 * 24 * time.Hour, // notice starts after the range ends
	}
	rng := Range{Start: base, End: base.AddDate(0, 0, 2)}

	slots, err := Generate(now, rng, time.Hour, prefs)
	if err != nil {
		t.Fatalf("expected nil error on empty clamp, got %v", err)
	}
	if slots != nil {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestGenerate_AbsentWeekdayIsUnavailable(t *testing.T) {
	now := base.AddDate(0, 0, -1)
	prefs := MergedPrefs{
		Windows: WeeklyWindows{
			time.Wednesday: {{Start: 10 * 60, End: 12 * 60}},
		},
	}
	rng := Range{Start: base, End: base.AddDate(0, 0, 7)}

	slots, err := Generate(now, rng, time.Hour, prefs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, s := range slots {
		if s.Start.Weekday() != time.Wednesday {
			t.Fatalf("slot %v emitted on closed weekday", s)
		}
	}
	if len(slots) != 3 { // 10:00, 10:30, 11:00
		t.Fatalf("got %d Wednesday slots want 3: %v", len(slots), slots)
	}
}

func TestGenerate_MultipleWindowsStayOrdered(t *testing.T) {
	now := base.AddDate(0, 0, -1)
	prefs := MergedPrefs{
		Windows: WeeklyWindows{
			// intentionally unsorted
			time.Monday: {
				{Start: 14 * 60, End: 16 * 60},
				{Start: 9 * 60, End: 10 * 60},
			},
		},
	}
	rng := Range{Start: base, End: base.AddDate(0, 0, 1)}

	slots, err := Generate(now, rng, time.Hour, prefs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Start.After(slots[i-1].Start) {
			t.Fatalf("slots out of order at %d: %v then %v", i, slots[i-1], slots[i])
		}
	}
	if len(slots) != 4 { // 09:00 then 14:00, 14:30, 15:00
		t.Fatalf("got %d slots want 4: %v", len(slots), slots)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	now := base.AddDate(0, 0, -1)
	prefs := MergedPrefs{
		Windows: allWeek(DayWindow{Start: 8 * 60, End: 20 * 60}),
		Commitments: []Commitment{
			{Weekday: time.Tuesday, Window: DayWindow{Start: 9 * 60, End: 11 * 60}},
		},
	}
	rng := Range{Start: base, End: base.AddDate(0, 0, 5)}

	a, err := Generate(now, rng, 90*time.Minute, prefs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(now, rng, 90*time.Minute, prefs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("non-deterministic lengths %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic slot at %d: %v vs %v", i, a[i], b[i])
		}
	}
}
