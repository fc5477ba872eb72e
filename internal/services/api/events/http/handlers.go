// Package http provides http transport for scheduled events
package http

import (
	stdhttp "net/http"
	"time"

	"tandem/internal/modkit/httpkit"
	"tandem/internal/services/api/events/domain"
	evdom "tandem/internal/services/events/domain"
)

// Register mounts the events endpoints on the given router
func Register(r httpkit.Router, booker evdom.BookerPort) {
	h := &handlers{booker: booker}
	httpkit.PostJSON[domain.BookInput](r, "/book", h.book)
	httpkit.PostJSON[domain.CancelInput](r, "/cancel", h.cancel)
	httpkit.PostJSON[domain.UpcomingInput](r, "/upcoming", h.upcoming)
}

type handlers struct{ booker evdom.BookerPort }

// swagger:route POST /events/book Events eventsBook
// @Summary Book a confirmed event for a party
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body domain.BookInput true "Booking"
// @Success 200 {object} domain.EventOutput "ok"
// @Failure 404 {object} httpkit.Envelope "unknown party"
// @Router /events/book [post]
func (h *handlers) book(r *stdhttp.Request, in domain.BookInput) (any, error) {
	ev, err := h.booker.Book(r.Context(), in.Cmd())
	if err != nil {
		return nil, err
	}
	return domain.EventOut(ev), nil
}

// swagger:route POST /events/cancel Events eventsCancel
// @Summary Cancel a booked event and its mirrored copies
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body domain.CancelInput true "Event"
// @Success 200 {object} domain.EventOutput "ok"
// @Failure 404 {object} httpkit.Envelope "unknown event"
// @Router /events/cancel [post]
func (h *handlers) cancel(r *stdhttp.Request, in domain.CancelInput) (any, error) {
	ev, err := h.booker.Cancel(r.Context(), in.EventID)
	if err != nil {
		return nil, err
	}
	return domain.EventOut(ev), nil
}

// swagger:route POST /events/upcoming Events eventsUpcoming
// @Summary Confirmed events for a party inside the horizon
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body domain.UpcomingInput true "Party and horizon"
// @Success 200 {array} domain.EventOutput "ok"
// @Router /events/upcoming [post]
func (h *handlers) upcoming(r *stdhttp.Request, in domain.UpcomingInput) (any, error) {
	horizon := time.Duration(in.HorizonDays) * 24 * time.Hour
	evs, err := h.booker.ListUpcoming(r.Context(), in.PartyID, horizon)
	if err != nil {
		return nil, err
	}
	return domain.EventsOut(evs), nil
}
