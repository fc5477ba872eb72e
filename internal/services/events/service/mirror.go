package service

import (
	"context"

	"tandem/internal/adapters/calendar"
	perr "tandem/internal/platform/errors"
	availdom "tandem/internal/services/availability/domain"
	"tandem/internal/services/events/domain"
)

// providerMirror implements domain.MirrorSource over the closed provider set
type providerMirror struct {
	providers map[calendar.Kind]calendar.Provider
}

// NewProviderMirror builds a MirrorSource dispatching on the account's
// stored provider name
func NewProviderMirror(providers map[calendar.Kind]calendar.Provider) domain.MirrorSource {
	return &providerMirror{providers: providers}
}

func (p *providerMirror) Create(ctx context.Context, acct availdom.Account, ev domain.MirrorEvent) (string, error) {
	prov, creds, err := p.dial(acct)
	if err != nil {
		return "", err
	}
	return prov.CreateEvent(ctx, creds, calendar.Event{
		Summary: ev.Title,
		Start:   ev.Start,
		End:     ev.End,
	})
}

func (p *providerMirror) Delete(ctx context.Context, acct availdom.Account, providerEventID string) error {
	prov, creds, err := p.dial(acct)
	if err != nil {
		return err
	}
	return prov.DeleteEvent(ctx, creds, providerEventID)
}

func (p *providerMirror) dial(acct availdom.Account) (calendar.Provider, calendar.Credentials, error) {
	kind, err := calendar.ParseKind(acct.Provider)
	if err != nil {
		return nil, calendar.Credentials{}, err
	}
	prov, ok := p.providers[kind]
	if !ok {
		return nil, calendar.Credentials{}, perr.CalendarSyncf(nil, "no %s provider configured", kind)
	}
	return prov, calendar.Credentials{
		AccessToken:  acct.AccessToken,
		RefreshToken: acct.RefreshToken,
		Expiry:       acct.ExpiresAt,
		CalendarIDs:  acct.CalendarIDs,
	}, nil
}
