// Package http provides http transport for scheduling relationships
package http

import (
	stdhttp "net/http"

	"tandem/internal/modkit/httpkit"
	"tandem/internal/services/api/parties/domain"
	reldom "tandem/internal/services/relationship/domain"
)

// Register mounts the parties endpoints on the given router
func Register(r httpkit.Router, linker reldom.LinkerPort, resolver reldom.ResolverPort) {
	h := &handlers{linker: linker, resolver: resolver}
	httpkit.PostJSON[domain.LinkInput](r, "/link", h.link)
	httpkit.PostJSON[domain.ShowInput](r, "/show", h.show)
}

type handlers struct {
	linker   reldom.LinkerPort
	resolver reldom.ResolverPort
}

// swagger:route POST /parties/link Parties partiesLink
// @Summary Create an active party from its members
// @Tags Parties
// @Accept json
// @Produce json
// @Param payload body domain.LinkInput true "Members"
// @Success 200 {object} domain.PartyOutput "ok"
// @Router /parties/link [post]
func (h *handlers) link(r *stdhttp.Request, in domain.LinkInput) (any, error) {
	p, err := h.linker.LinkParty(r.Context(), in.Cmd())
	if err != nil {
		return nil, err
	}
	return domain.PartyOut(p), nil
}

// swagger:route POST /parties/show Parties partiesShow
// @Summary Resolve a party and its members
// @Tags Parties
// @Accept json
// @Produce json
// @Param payload body domain.ShowInput true "Party"
// @Success 200 {object} domain.PartyOutput "ok"
// @Failure 404 {object} httpkit.Envelope "unknown or inactive party"
// @Router /parties/show [post]
func (h *handlers) show(r *stdhttp.Request, in domain.ShowInput) (any, error) {
	p, err := h.resolver.ResolveParty(r.Context(), in.PartyID)
	if err != nil {
		return nil, err
	}
	return domain.PartyOut(p), nil
}
