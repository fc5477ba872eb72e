// Package domain defines the types and ports for the relationship service
package domain

import "time"

// StatusActive is the only party status that can be scheduled against
const StatusActive = "active"

// Party is a scheduling relationship between users
type Party struct {
	ID      string
	Kind    string
	Status  string
	Members []Member
}

// Member is one user's membership in a party
type Member struct {
	UserID   string
	Role     string
	JoinedAt time.Time
}

// NewMember is one membership to create alongside a party
type NewMember struct {
	UserID string
	Role   string
}

// LinkCmd creates one active party and its memberships
type LinkCmd struct {
	Kind    string
	Members []NewMember
}

// Active reports whether the party can be scheduled against
func (p Party) Active() bool { return p.Status == StatusActive }

// UserIDs returns the member ids in join order
func (p Party) UserIDs() []string {
	out := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		out = append(out, m.UserID)
	}
	return out
}
