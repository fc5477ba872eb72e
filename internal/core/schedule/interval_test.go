package schedule

import (
	"testing"
	"time"
)

// base is a fixed Monday used across the package tests
var base = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

// hm returns the base day at hour h minute m
func hm(h, m int) time.Time {
	return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

// ivl builds an interval on the base day
func ivl(h1, m1, h2, m2 int) Interval {
	return Interval{Start: hm(h1, m1), End: hm(h2, m2)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", ivl(9, 0, 10, 0), ivl(9, 0, 10, 0), true},
		{"partial", ivl(9, 0, 10, 0), ivl(9, 30, 11, 0), true},
		{"containment", ivl(9, 0, 12, 0), ivl(10, 0, 11, 0), true},
		{"disjoint", ivl(9, 0, 10, 0), ivl(11, 0, 12, 0), false},
		{"touching", ivl(9, 0, 10, 0), ivl(10, 0, 11, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Fatalf("Overlaps(%v, %v) = %v want %v", tt.a, tt.b, got, tt.want)
			}
			// overlap is symmetric
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Fatalf("Overlaps reversed = %v want %v", got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	outer := ivl(9, 0, 17, 0)

	tests := []struct {
		name  string
		inner Interval
		want  bool
	}{
		{"strict inside", ivl(10, 0, 11, 0), true},
		{"same bounds", ivl(9, 0, 17, 0), true},
		{"shared start", ivl(9, 0, 10, 0), true},
		{"shared end", ivl(16, 0, 17, 0), true},
		{"starts early", ivl(8, 30, 10, 0), false},
		{"ends late", ivl(16, 30, 17, 30), false},
		{"outside", ivl(18, 0, 19, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(outer, tt.inner); got != tt.want {
				t.Fatalf("Contains(%v, %v) = %v want %v", outer, tt.inner, got, tt.want)
			}
		})
	}
}

func TestMerge_OverlapAndTouch(t *testing.T) {
	in := []Interval{ivl(9, 0, 10, 0), ivl(9, 30, 11, 0), ivl(14, 0, 15, 0)}
	got := Merge(in)

	want := []Interval{ivl(9, 0, 11, 0), ivl(14, 0, 15, 0)}
	if len(got) != len(want) {
		t.Fatalf("Merge returned %d intervals, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Fatalf("Merge[%d] = %v want %v", i, got[i], want[i])
		}
	}

	// touching intervals coalesce too
	got2 := Merge([]Interval{ivl(9, 0, 10, 0), ivl(10, 0, 11, 0)})
	if len(got2) != 1 || !got2[0].Start.Equal(hm(9, 0)) || !got2[0].End.Equal(hm(11, 0)) {
		t.Fatalf("touching merge = %v", got2)
	}
}

func TestMerge_UnsortedInputAndNoMutation(t *testing.T) {
	in := []Interval{ivl(14, 0, 15, 0), ivl(9, 30, 11, 0), ivl(9, 0, 10, 0)}
	snapshot := make([]Interval, len(in))
	copy(snapshot, in)

	got := Merge(in)
	if len(got) != 2 || !got[0].Start.Equal(hm(9, 0)) || !got[0].End.Equal(hm(11, 0)) {
		t.Fatalf("unsorted merge = %v", got)
	}
	for i := range in {
		if in[i] != snapshot[i] {
			t.Fatalf("Merge mutated its input at %d: %v", i, in[i])
		}
	}
}

func TestMerge_EdgesAndIdempotence(t *testing.T) {
	if got := Merge(nil); got != nil {
		t.Fatalf("Merge(nil) = %v want nil", got)
	}

	one := []Interval{ivl(9, 0, 10, 0)}
	if got := Merge(one); len(got) != 1 || got[0] != one[0] {
		t.Fatalf("single merge = %v", got)
	}

	in := []Interval{ivl(9, 0, 10, 0), ivl(9, 30, 11, 0), ivl(13, 0, 14, 0)}
	once := Merge(in)
	twice := Merge(once)
	if len(once) != len(twice) {
		t.Fatalf("merge not idempotent: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("merge not idempotent at %d", i)
		}
	}
}

func TestInterval_SubMinutePrecision(t *testing.T) {
	// a sliver of busy time just after 10:00 still blocks a slot starting 10:00
	busy := Interval{Start: hm(10, 0).Add(time.Nanosecond), End: hm(10, 0).Add(30 * time.Second)}
	slot := ivl(10, 0, 11, 0)
	if !Overlaps(slot, busy) {
		t.Fatalf("expected sub-minute busy interval to overlap the slot")
	}
}
