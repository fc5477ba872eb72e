package domain

import (
	"testing"
	"time"

	"tandem/internal/core/schedule"
)

func TestDefaults(t *testing.T) {
	p := Defaults()

	if len(p.Windows) != 7 {
		t.Fatalf("windows cover %d weekdays, want 7", len(p.Windows))
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		wins := p.Windows[d]
		if len(wins) != 1 {
			t.Fatalf("%s has %d windows, want 1", d, len(wins))
		}
		if wins[0].Start != 0 || wins[0].End != schedule.MinutesPerDay {
			t.Errorf("%s window = %d-%d, want the full day", d, wins[0].Start, wins[0].End)
		}
	}
	if p.MinAdvanceNotice != 24*time.Hour {
		t.Errorf("MinAdvanceNotice = %v, want 24h", p.MinAdvanceNotice)
	}
	if p.MaxAdvanceWindow != 90*24*time.Hour {
		t.Errorf("MaxAdvanceWindow = %v, want 90 days", p.MaxAdvanceWindow)
	}
	if !p.RequireAllMembersFree {
		t.Error("RequireAllMembersFree should default true")
	}
	if p.UseExternalCalendars {
		t.Error("UseExternalCalendars should default false")
	}
	if p.Version != 0 {
		t.Errorf("Version = %d, want 0", p.Version)
	}
}

func TestTightenBounds(t *testing.T) {
	a := Prefs{MinAdvanceNotice: 24 * time.Hour, MaxAdvanceWindow: 90 * 24 * time.Hour}
	b := Prefs{MinAdvanceNotice: 48 * time.Hour, MaxAdvanceWindow: 30 * 24 * time.Hour}

	notice, horizon := TightenBounds(a, b)
	if notice != 48*time.Hour {
		t.Errorf("notice = %v, want the later 48h", notice)
	}
	if horizon != 30*24*time.Hour {
		t.Errorf("horizon = %v, want the nearer 30 days", horizon)
	}

	// symmetric
	n2, h2 := TightenBounds(b, a)
	if n2 != notice || h2 != horizon {
		t.Errorf("TightenBounds is not symmetric: %v/%v vs %v/%v", n2, h2, notice, horizon)
	}
}

func TestWeekdayKeys(t *testing.T) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		got, ok := WeekdayFromKey(KeyFromWeekday(d))
		if !ok || got != d {
			t.Errorf("round trip for %s = %v %v", d, got, ok)
		}
	}
	if d, ok := WeekdayFromKey(" TUE "); !ok || d != time.Tuesday {
		t.Error("keys should parse case and space insensitively")
	}
	if _, ok := WeekdayFromKey("monday"); ok {
		t.Error("long day names are not keys")
	}
}
