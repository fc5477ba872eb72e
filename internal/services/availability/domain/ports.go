package domain

import (
	"context"

	"tandem/internal/core/schedule"
	insightsdom "tandem/internal/services/insights/domain"
	prefdom "tandem/internal/services/preferences/domain"
	reldom "tandem/internal/services/relationship/domain"
)

// SearchPort runs the mutual availability pipeline
type SearchPort interface {
	FindSlots(ctx context.Context, q Query) (Result, error)
}

// SuggestPort runs the fallback ladder after a failed search
type SuggestPort interface {
	Suggest(ctx context.Context, q Query) ([]Suggestion, error)
}

// OraclePort confirms slots against external calendar busy data
type OraclePort interface {
	// FetchBusy returns merged busy intervals per user. Per-account
	// failures degrade into missing data; the error is non-nil only
	// when every attempted account failed
	FetchBusy(ctx context.Context, userIDs []string, rng schedule.Range) (map[string][]schedule.Interval, error)

	// IsFree fetches busy data for the slot's window and reports
	// whether the parties can make it under the requireAll policy
	IsFree(ctx context.Context, parties []reldom.Party, slot schedule.TimeSlot, requireAll bool) (bool, error)
}

// CredentialSource lists the external calendar accounts of users
type CredentialSource interface {
	AccountsOf(ctx context.Context, userIDs []string) (map[string][]Account, error)
}

// BusySource fetches raw busy intervals for one account
type BusySource interface {
	Busy(ctx context.Context, acct Account, rng schedule.Range) ([]schedule.Interval, error)
}

// Ports are dependencies injected into the availability module
type Ports struct {
	Resolver reldom.ResolverPort      // required
	Prefs    prefdom.PrefsPort        // required
	Insights insightsdom.RecorderPort // optional analytics sink
}
