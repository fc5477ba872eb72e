package domain

import "context"

// RecorderPort accepts search outcomes for analytics. Implementations
// must never block a request path; dropping an event beats stalling a
// search. A nil port disables recording entirely
type RecorderPort interface {
	Record(ctx context.Context, ev SearchEvent)
}
