// Package domain holds DTOs for the parties http surface
package domain

import (
	reldom "tandem/internal/services/relationship/domain"
)

// ShowInput names the party to resolve
type ShowInput struct {
	PartyID string `json:"party_id" validate:"required,uuid4" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
}

// NewMemberDTO is one membership to create alongside the party
type NewMemberDTO struct {
	UserID string `json:"user_id" validate:"required,uuid4" example:"1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d"`
	Role   string `json:"role,omitempty" validate:"omitempty,max=40" example:"member"`
}

// LinkInput creates an active party from its members
type LinkInput struct {
	Kind    string         `json:"kind,omitempty" validate:"omitempty,max=40" example:"couple"`
	Members []NewMemberDTO `json:"members" validate:"required,min=2,dive"`
}

// Cmd converts the wire shape into the link command
func (in LinkInput) Cmd() reldom.LinkCmd {
	cmd := reldom.LinkCmd{Kind: in.Kind}
	for _, m := range in.Members {
		cmd.Members = append(cmd.Members, reldom.NewMember{UserID: m.UserID, Role: m.Role})
	}
	return cmd
}

// MemberOutput is one membership on the wire
type MemberOutput struct {
	UserID       string `json:"user_id" example:"1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d"`
	Role         string `json:"role" example:"member"`
	JoinedAtUnix int64  `json:"joined_at_unix" example:"1767225600"`
}

// PartyOutput is one scheduling relationship on the wire
type PartyOutput struct {
	ID      string         `json:"id" example:"8f9b2c3a-1d4e-4f5a-9b6c-7d8e9f0a1b2c"`
	Kind    string         `json:"kind" example:"couple"`
	Status  string         `json:"status" example:"active"`
	Members []MemberOutput `json:"members"`
}

// PartyOut converts a resolved party into the wire shape
func PartyOut(p reldom.Party) PartyOutput {
	out := PartyOutput{
		ID:      p.ID,
		Kind:    p.Kind,
		Status:  p.Status,
		Members: make([]MemberOutput, 0, len(p.Members)),
	}
	for _, m := range p.Members {
		out.Members = append(out.Members, MemberOutput{
			UserID:       m.UserID,
			Role:         m.Role,
			JoinedAtUnix: m.JoinedAt.Unix(),
		})
	}
	return out
}
