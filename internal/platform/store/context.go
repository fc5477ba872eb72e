package store

import "context"

type (
	partyKey struct{}
	reqIDKey struct{}
)

// WithParty attaches a party id to the context
func WithParty(ctx context.Context, partyID string) context.Context {
	return context.WithValue(ctx, partyKey{}, partyID)
}

// PartyID retrieves a party id from context if present
func PartyID(ctx context.Context) (string, bool) {
	v := ctx.Value(partyKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// WithRequestID attaches a request id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID retrieves a request id from context if present
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(reqIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
