// Package http provides http transport for party preferences
package http

import (
	stdhttp "net/http"

	"tandem/internal/modkit/httpkit"
	"tandem/internal/services/api/preferences/domain"
	prefdom "tandem/internal/services/preferences/domain"
)

// Register mounts the preferences endpoints on the given router
func Register(r httpkit.Router, prefs prefdom.PrefsPort) {
	h := &handlers{prefs: prefs}
	httpkit.PostJSON[domain.ShowInput](r, "/show", h.show)
	httpkit.PostJSON[domain.UpdateInput](r, "/update", h.update)
}

type handlers struct{ prefs prefdom.PrefsPort }

// swagger:route POST /preferences/show Preferences preferencesShow
// @Summary Effective preference set for a party
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body domain.ShowInput true "Party"
// @Success 200 {object} domain.PrefsOutput "ok"
// @Router /preferences/show [post]
func (h *handlers) show(r *stdhttp.Request, in domain.ShowInput) (any, error) {
	p, err := h.prefs.Get(r.Context(), in.PartyID)
	if err != nil {
		return nil, err
	}
	return domain.PrefsOut(in.PartyID, p), nil
}

// swagger:route POST /preferences/update Preferences preferencesUpdate
// @Summary Replace a party's preference set
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body domain.UpdateInput true "Preference set"
// @Success 200 {object} domain.PrefsOutput "ok"
// @Failure 409 {object} httpkit.Envelope "stale expected_version"
// @Router /preferences/update [post]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	p, err := in.Prefs()
	if err != nil {
		return nil, err
	}
	saved, err := h.prefs.Put(r.Context(), in.PartyID, p, in.ExpectedVersion)
	if err != nil {
		return nil, err
	}
	return domain.PrefsOut(in.PartyID, saved), nil
}
