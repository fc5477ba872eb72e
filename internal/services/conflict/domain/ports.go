package domain

import (
	"context"
	"time"

	availdom "tandem/internal/services/availability/domain"
	reldom "tandem/internal/services/relationship/domain"
)

// SweeperPort re-checks confirmed events against fresh calendar data
type SweeperPort interface {
	// Sweep covers every confirmed event inside the horizon
	Sweep(ctx context.Context, horizon time.Duration) (Report, error)

	// ScanParty covers one party's confirmed events on demand
	ScanParty(ctx context.Context, partyID string, horizon time.Duration) (Report, error)
}

// Ports are dependencies injected into the conflict module
type Ports struct {
	Resolver reldom.ResolverPort // required
	Oracle   availdom.OraclePort // required
}
