package schedule

import (
	"testing"
	"time"
)

func TestDayWindow_Valid(t *testing.T) {
	tests := []struct {
		name string
		w    DayWindow
		want bool
	}{
		{"full day", DayWindow{Start: 0, End: 1440}, true},
		{"business hours", DayWindow{Start: 540, End: 1020}, true},
		{"single minute", DayWindow{Start: 720, End: 721}, true},
		{"negative start", DayWindow{Start: -1, End: 60}, false},
		{"empty", DayWindow{Start: 600, End: 600}, false},
		{"inverted", DayWindow{Start: 600, End: 540}, false},
		{"past midnight", DayWindow{Start: 0, End: 1441}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Valid(); got != tt.want {
				t.Fatalf("Valid(%+v) = %v, want %v", tt.w, got, tt.want)
			}
		})
	}
}

func TestDayWindow_On(t *testing.T) {
	w := DayWindow{Start: 9*60 + 15, End: 17*60 + 30}

	// any instant within the date projects onto that date's midnight
	got := w.On(base.Add(11*time.Hour + 42*time.Minute))
	want := Interval{Start: hm(9, 15), End: hm(17, 30)}
	if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
		t.Fatalf("On = %v, want %v", got, want)
	}
}

func TestDayWindow_On_FullDayEndsAtNextMidnight(t *testing.T) {
	got := DayWindow{Start: 0, End: 1440}.On(base)
	if !got.Start.Equal(base) {
		t.Fatalf("start = %v, want %v", got.Start, base)
	}
	if next := base.AddDate(0, 0, 1); !got.End.Equal(next) {
		t.Fatalf("end = %v, want %v", got.End, next)
	}
}

func TestCommitmentsOn_MatchesWeekdayOnly(t *testing.T) {
	commitments := []Commitment{
		{Weekday: time.Monday, Window: DayWindow{Start: 12 * 60, End: 13 * 60}, Label: "lunch"},
		{Weekday: time.Tuesday, Window: DayWindow{Start: 9 * 60, End: 9*60 + 30}, Label: "standup"},
	}

	mon := commitmentsOn(commitments, base)
	if len(mon) != 1 || !mon[0].Start.Equal(hm(12, 0)) || !mon[0].End.Equal(hm(13, 0)) {
		t.Fatalf("monday projection = %v", mon)
	}

	tue := commitmentsOn(commitments, base.AddDate(0, 0, 1))
	if len(tue) != 1 || !tue[0].Start.Equal(base.AddDate(0, 0, 1).Add(9*time.Hour)) {
		t.Fatalf("tuesday projection = %v", tue)
	}

	if wed := commitmentsOn(commitments, base.AddDate(0, 0, 2)); wed != nil {
		t.Fatalf("wednesday projection = %v, want none", wed)
	}
}
