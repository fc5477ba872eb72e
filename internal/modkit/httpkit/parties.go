package httpkit

import (
	"net/http"

	pnet "tandem/internal/platform/net"
)

// MembershipPort checks that the requesting user belongs to the party in scope
type MembershipPort interface {
	Validate(r *http.Request, partyID string) error
}

// Membership is middleware that validates party membership using the port
func Membership(p MembershipPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			pid := pnet.PartyID(r.Context())
			if err := p.Validate(r, pid); err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
