package domain

import "context"

// ResolverPort resolves parties and their membership
type ResolverPort interface {
	ResolveParty(ctx context.Context, partyID string) (Party, error)
	ResolvePair(ctx context.Context, a, b string) (Party, Party, error)
	IsMember(ctx context.Context, partyID, userID string) (bool, error)
}

// LinkerPort creates scheduling relationships
type LinkerPort interface {
	LinkParty(ctx context.Context, cmd LinkCmd) (Party, error)
}
