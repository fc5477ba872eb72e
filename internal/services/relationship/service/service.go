// Package service implements relationship resolution
package service

import (
	"context"

	"github.com/google/uuid"

	"tandem/internal/modkit/repokit"
	perr "tandem/internal/platform/errors"
	"tandem/internal/services/relationship/domain"
	"tandem/internal/services/relationship/repo"
)

// Fallbacks applied when a link request leaves kind or role empty
const (
	defaultKind = "couple"
	defaultRole = "member"
)

// Service resolves parties and their memberships
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// New builds the relationship service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	if db == nil {
		panic("relationship: db is required")
	}
	return &Service{db: db, binder: b}
}

func (s *Service) storage() repo.Storage { return s.binder.Bind(s.db) }

// ResolveParty loads a party with its members ordered by join time.
// Missing and inactive parties both map to a not found error so callers
// cannot distinguish suspended pairs from ones that never existed
func (s *Service) ResolveParty(ctx context.Context, partyID string) (domain.Party, error) {
	st := s.storage()

	p, found, err := st.GetParty(ctx, partyID)
	if err != nil {
		return domain.Party{}, perr.FromPostgresf(err, "get party %s", partyID)
	}
	if !found || !p.Active() {
		return domain.Party{}, perr.RelationshipNotFoundf("party %s not found", partyID)
	}

	members, err := st.ListMembers(ctx, partyID)
	if err != nil {
		return domain.Party{}, perr.FromPostgresf(err, "list members for party %s", partyID)
	}
	if len(members) == 0 {
		return domain.Party{}, perr.RelationshipNotFoundf("party %s has no members", partyID)
	}
	p.Members = members
	return p, nil
}

// ResolvePair resolves both parties of a search query
func (s *Service) ResolvePair(ctx context.Context, a, b string) (domain.Party, domain.Party, error) {
	pa, err := s.ResolveParty(ctx, a)
	if err != nil {
		return domain.Party{}, domain.Party{}, err
	}
	pb, err := s.ResolveParty(ctx, b)
	if err != nil {
		return domain.Party{}, domain.Party{}, err
	}
	return pa, pb, nil
}

// IsMember reports whether userID belongs to partyID
func (s *Service) IsMember(ctx context.Context, partyID, userID string) (bool, error) {
	ok, err := s.storage().IsMember(ctx, partyID, userID)
	if err != nil {
		return false, perr.FromPostgresf(err, "membership check for party %s", partyID)
	}
	return ok, nil
}

// LinkParty creates an active party with its members in one transaction
// and returns it resolved, members in join order
func (s *Service) LinkParty(ctx context.Context, cmd domain.LinkCmd) (domain.Party, error) {
	if len(cmd.Members) < 2 {
		return domain.Party{}, perr.InvalidArgf("a party needs at least two members")
	}
	seen := make(map[string]struct{}, len(cmd.Members))
	for _, m := range cmd.Members {
		if m.UserID == "" {
			return domain.Party{}, perr.InvalidArgf("member user id required")
		}
		if _, dup := seen[m.UserID]; dup {
			return domain.Party{}, perr.InvalidArgf("duplicate member %s", m.UserID)
		}
		seen[m.UserID] = struct{}{}
	}

	p := domain.Party{
		ID:     uuid.NewString(),
		Kind:   cmd.Kind,
		Status: domain.StatusActive,
	}
	if p.Kind == "" {
		p.Kind = defaultKind
	}
	for _, m := range cmd.Members {
		role := m.Role
		if role == "" {
			role = defaultRole
		}
		p.Members = append(p.Members, domain.Member{UserID: m.UserID, Role: role})
	}

	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.binder.Bind(q).InsertParty(ctx, p)
	})
	if err != nil {
		return domain.Party{}, perr.FromPostgresf(err, "link party")
	}
	return s.ResolveParty(ctx, p.ID)
}
