// Package http provides http transport for availability search
package http

import (
	stdhttp "net/http"

	"tandem/internal/modkit/httpkit"
	"tandem/internal/services/api/availability/domain"
	availdom "tandem/internal/services/availability/domain"
)

// Register mounts the availability endpoints on the given router
func Register(r httpkit.Router, search availdom.SearchPort, suggest availdom.SuggestPort) {
	h := &handlers{searcher: search, suggester: suggest}
	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search)
	httpkit.PostJSON[domain.SearchInput](r, "/suggest", h.suggest)
}

type handlers struct {
	searcher  availdom.SearchPort
	suggester availdom.SuggestPort
}

// swagger:route POST /availability/search Availability availabilitySearch
// @Summary Find mutual open slots for two parties
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput true "Search window"
// @Success 200 {object} domain.SearchOutput "ok"
// @Failure 404 {object} httpkit.Envelope "no linked relationship"
// @Failure 422 {object} httpkit.Envelope "no slot clears every stage"
// @Router /availability/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	res, err := h.searcher.FindSlots(r.Context(), in.Query())
	if err != nil {
		return nil, err
	}
	return domain.SearchOut(res), nil
}

// swagger:route POST /availability/suggest Availability availabilitySuggest
// @Summary Fallback suggestions when a search comes back empty
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput true "Original search window"
// @Success 200 {object} domain.SuggestOutput "ok"
// @Router /availability/suggest [post]
func (h *handlers) suggest(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	sugs, err := h.suggester.Suggest(r.Context(), in.Query())
	if err != nil {
		return nil, err
	}
	return domain.SuggestOut(sugs), nil
}
