package service

import (
	"context"

	"tandem/internal/adapters/calendar"
	"tandem/internal/core/schedule"
	perr "tandem/internal/platform/errors"
	"tandem/internal/services/availability/domain"
)

// providerBusy implements domain.BusySource over the closed provider set
type providerBusy struct {
	providers map[calendar.Kind]calendar.Provider
}

// NewProviderBusy builds a BusySource dispatching on the account's
// stored provider name
func NewProviderBusy(providers map[calendar.Kind]calendar.Provider) domain.BusySource {
	return &providerBusy{providers: providers}
}

func (p *providerBusy) Busy(
	ctx context.Context,
	acct domain.Account,
	rng schedule.Range,
) ([]schedule.Interval, error) {
	kind, err := calendar.ParseKind(acct.Provider)
	if err != nil {
		return nil, err
	}
	prov, ok := p.providers[kind]
	if !ok {
		return nil, perr.CalendarSyncf(nil, "no %s provider configured", kind)
	}
	return prov.FreeBusy(ctx, calendar.Credentials{
		AccessToken:  acct.AccessToken,
		RefreshToken: acct.RefreshToken,
		Expiry:       acct.ExpiresAt,
		CalendarIDs:  acct.CalendarIDs,
	}, rng)
}
