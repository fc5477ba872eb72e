package schedule

// UserKey identifies one member in busy maps. The storage layer owns the
// real id type; here it is just an opaque key
type UserKey string

// Event is an already committed booking checked for fresh collisions
type Event struct {
	ID      string
	PartyID string
	Slot    TimeSlot
	Members []UserKey
}

// ConflictStatus is the per event outcome of a detection pass
type ConflictStatus string

const (
	// StatusClear means no member's busy data touches the event
	StatusClear ConflictStatus = "clear"
	// StatusConflicted means at least one member is now busy during the event
	StatusConflicted ConflictStatus = "conflicted"
)

// ConflictFlag records one event colliding with fresh busy data
type ConflictFlag struct {
	EventID  string
	PartyID  string
	Slot     TimeSlot
	Members  []UserKey  // members whose busy data collided
	Overlaps []Interval // minimal covering set of the colliding intervals
}

// DetectConflicts compares committed events against fresh busy data and
// flags the ones that now collide. Stateless; flag order follows event order
func DetectConflicts(events []Event, busy map[UserKey][]Interval) []ConflictFlag {
	var flags []ConflictFlag
	for _, ev := range events {
		iv := ev.Slot.Interval()

		var hit []Interval
		var who []UserKey
		for _, m := range ev.Members {
			memberHit := false
			for _, b := range busy[m] {
				if Overlaps(iv, b) {
					hit = append(hit, b)
					memberHit = true
				}
			}
			if memberHit {
				who = append(who, m)
			}
		}
		if len(hit) > 0 {
			flags = append(flags, ConflictFlag{
				EventID:  ev.ID,
				PartyID:  ev.PartyID,
				Slot:     ev.Slot,
				Members:  who,
				Overlaps: Merge(hit),
			})
		}
	}
	return flags
}

// Statuses maps every event id to clear or conflicted given a detection pass
func Statuses(events []Event, flags []ConflictFlag) map[string]ConflictStatus {
	out := make(map[string]ConflictStatus, len(events))
	for _, ev := range events {
		out[ev.ID] = StatusClear
	}
	for _, f := range flags {
		out[f.EventID] = StatusConflicted
	}
	return out
}
