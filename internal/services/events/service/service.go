// Package service implements event booking, cancellation and the
// calendar mirror path
package service

import (
	"context"
	"time"

	"tandem/internal/core/schedule"
	"tandem/internal/modkit/repokit"
	perr "tandem/internal/platform/errors"
	"tandem/internal/platform/logger"
	availdom "tandem/internal/services/availability/domain"
	"tandem/internal/services/events/domain"
	"tandem/internal/services/events/repo"
	reldom "tandem/internal/services/relationship/domain"
)

// Config tunes the booking service
type Config struct {
	// DefaultHorizon bounds ListUpcoming when the caller passes none
	DefaultHorizon time.Duration
}

// Service implements domain.BookerPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	rel    reldom.ResolverPort
	creds  availdom.CredentialSource
	mirror domain.MirrorSource
	cfg    Config
	now    func() time.Time // swapped in tests
}

// New constructs the booking service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	rel reldom.ResolverPort,
	creds availdom.CredentialSource,
	mirror domain.MirrorSource,
	cfg Config,
) *Service {
	if db == nil {
		panic("events.New: db required")
	}
	if binder == nil {
		panic("events.New: repo binder required")
	}
	if rel == nil {
		panic("events.New: resolver required")
	}
	if creds == nil {
		panic("events.New: credential source required")
	}
	if mirror == nil {
		panic("events.New: mirror source required")
	}
	if cfg.DefaultHorizon <= 0 {
		cfg.DefaultHorizon = 14 * 24 * time.Hour
	}
	return &Service{
		db: db, binder: binder,
		rel: rel, creds: creds, mirror: mirror,
		cfg: cfg, now: time.Now,
	}
}

func (s *Service) storage() repo.Storage { return s.binder.Bind(s.db) }

// Book stores a confirmed event for the party and, when asked, mirrors
// it onto every member's external calendars. Mirror failures are logged
// per account and never fail the booking
func (s *Service) Book(ctx context.Context, cmd domain.BookCmd) (domain.Event, error) {
	if !cmd.Slot.Valid() {
		return domain.Event{}, perr.InvalidTimeRangef("event must end after it starts")
	}
	party, err := s.rel.ResolveParty(ctx, cmd.PartyID)
	if err != nil {
		return domain.Event{}, err
	}

	ev, err := s.storage().Insert(ctx, domain.Event{
		PartyID:        party.ID,
		StartsAt:       cmd.Slot.Start.UTC(),
		EndsAt:         cmd.Slot.End.UTC(),
		Title:          cmd.Title,
		Status:         domain.StatusConfirmed,
		ConflictStatus: schedule.StatusClear,
	})
	if err != nil {
		return domain.Event{}, err
	}

	if cmd.Mirror {
		if refs := s.mirrorOut(ctx, party, ev); len(refs) > 0 {
			if err := s.storage().SetProviderRefs(ctx, ev.ID, refs); err != nil {
				logger.C(ctx).Warn().Err(err).Str("event", ev.ID).
					Msg("provider refs not persisted, mirrored copies will outlive a cancel")
			} else {
				ev.ProviderRefs = refs
				ev.Version++
			}
		}
	}
	return ev, nil
}

// mirrorOut pushes the booking onto each member account and returns the
// provider event ids that stuck
func (s *Service) mirrorOut(ctx context.Context, party reldom.Party, ev domain.Event) map[string]string {
	accts, err := s.creds.AccountsOf(ctx, party.UserIDs())
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("event", ev.ID).
			Msg("calendar accounts unavailable, booking not mirrored")
		return nil
	}

	refs := make(map[string]string)
	mev := domain.MirrorEvent{Title: ev.Title, Start: ev.StartsAt, End: ev.EndsAt}
	for _, uid := range party.UserIDs() {
		for _, acct := range accts[uid] {
			id, err := s.mirror.Create(ctx, acct, mev)
			if err != nil {
				logger.C(ctx).Warn().Err(err).
					Str("event", ev.ID).Str("user", acct.UserID).Str("provider", acct.Provider).
					Msg("calendar mirror failed, account skipped")
				continue
			}
			refs[domain.RefKey(acct.UserID, acct.Provider)] = id
		}
	}
	return refs
}

// Cancel marks the event cancelled and best-effort deletes its mirrored
// provider copies. Cancelling an already cancelled event is a no-op
func (s *Service) Cancel(ctx context.Context, eventID string) (domain.Event, error) {
	st := s.storage()
	ev, found, err := st.Get(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if !found {
		return domain.Event{}, perr.NotFoundf("event %s not found", eventID)
	}
	if !ev.Confirmed() {
		return ev, nil
	}

	cancelled, ok, err := st.MarkCancelled(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if !ok {
		// lost the race to another cancel; the mirrors are their problem
		ev.Status = domain.StatusCancelled
		return ev, nil
	}

	s.deleteMirrors(ctx, cancelled)
	return cancelled, nil
}

// deleteMirrors removes provider copies recorded in the event's refs.
// Accounts that vanished since booking leave their copies behind
func (s *Service) deleteMirrors(ctx context.Context, ev domain.Event) {
	if len(ev.ProviderRefs) == 0 {
		return
	}
	party, err := s.rel.ResolveParty(ctx, ev.PartyID)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("event", ev.ID).
			Msg("party unresolvable, mirrored copies left in place")
		return
	}
	accts, err := s.creds.AccountsOf(ctx, party.UserIDs())
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("event", ev.ID).
			Msg("calendar accounts unavailable, mirrored copies left in place")
		return
	}

	byKey := make(map[string]availdom.Account)
	for _, list := range accts {
		for _, acct := range list {
			byKey[domain.RefKey(acct.UserID, acct.Provider)] = acct
		}
	}
	for key, providerID := range ev.ProviderRefs {
		acct, ok := byKey[key]
		if !ok {
			logger.C(ctx).Warn().Str("event", ev.ID).Str("account", key).
				Msg("mirrored account no longer on file, copy left in place")
			continue
		}
		if err := s.mirror.Delete(ctx, acct, providerID); err != nil {
			logger.C(ctx).Warn().Err(err).Str("event", ev.ID).Str("account", key).
				Msg("mirrored copy not deleted")
		}
	}
}

// ListUpcoming returns the party's confirmed events inside the horizon,
// soonest first. An event already in progress counts until it ends
func (s *Service) ListUpcoming(ctx context.Context, partyID string, horizon time.Duration) ([]domain.Event, error) {
	if horizon <= 0 {
		horizon = s.cfg.DefaultHorizon
	}
	if _, err := s.rel.ResolveParty(ctx, partyID); err != nil {
		return nil, err
	}
	from := s.now().UTC()
	return s.storage().Upcoming(ctx, partyID, from, from.Add(horizon))
}
