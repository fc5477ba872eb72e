package domain

import "context"

// PrefsPort reads and writes party preference sets
type PrefsPort interface {
	// Get returns the saved preferences for a party, or the canonical
	// defaults with Version zero when the party never saved any
	Get(ctx context.Context, partyID string) (Prefs, error)

	// Put replaces a party's preferences. expectedVersion must match
	// the stored row's version, or be zero when no row exists yet
	Put(ctx context.Context, partyID string, p Prefs, expectedVersion int) (Prefs, error)
}
