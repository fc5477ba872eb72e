// Package http provides http transport for conflict scans
package http

import (
	stdhttp "net/http"
	"time"

	"tandem/internal/modkit/httpkit"
	"tandem/internal/services/api/conflicts/domain"
	confdom "tandem/internal/services/conflict/domain"
)

// Register mounts the conflicts endpoints on the given router
func Register(r httpkit.Router, sweeper confdom.SweeperPort) {
	h := &handlers{sweeper: sweeper}
	httpkit.PostJSON[domain.ScanInput](r, "/scan", h.scan)
}

type handlers struct{ sweeper confdom.SweeperPort }

// swagger:route POST /conflicts/scan Conflicts conflictsScan
// @Summary Re-check a party's confirmed events against fresh calendar data
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param payload body domain.ScanInput true "Party and horizon"
// @Success 200 {object} domain.ReportOutput "ok"
// @Failure 404 {object} httpkit.Envelope "unknown party"
// @Router /conflicts/scan [post]
func (h *handlers) scan(r *stdhttp.Request, in domain.ScanInput) (any, error) {
	horizon := time.Duration(in.HorizonDays) * 24 * time.Hour
	rep, err := h.sweeper.ScanParty(r.Context(), in.PartyID, horizon)
	if err != nil {
		return nil, err
	}
	return domain.ReportOut(rep), nil
}
