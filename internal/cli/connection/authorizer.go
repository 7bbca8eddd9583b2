package connection

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// Session is what the Authorizer needs from the session manager.
type Session interface {
	Token() (string, bool)
	Invalidate(status int)
}

// Authorizer is the only stage that touches the Authorization header.
//
// It attaches the stored bearer token to outgoing requests, and when a
// response is 401 or 403 it invalidates the session before handing the
// response back unchanged, whatever the endpoint. Login goes through a
// client built without this stage.
type Authorizer struct {
	next    http.RoundTripper
	session Session
	logger  *slog.Logger
}

// NewAuthorizer wraps next.
func NewAuthorizer(next http.RoundTripper, session Session, log *slog.Logger) *Authorizer {
	return &Authorizer{next: next, session: session, logger: logger.OrDefault(log)}
}

// RoundTrip implements http.RoundTripper.
func (a *Authorizer) RoundTrip(r *http.Request) (*http.Response, error) {
	if tok, ok := a.session.Token(); ok {
		r = r.Clone(r.Context())
		r.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := a.next.RoundTrip(r)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		logger.ForRequest(r.Context(), a.logger).Warn("request rejected, invalidating session",
			"route", RouteOf(r.URL.Path),
			"status", resp.StatusCode)
		a.session.Invalidate(resp.StatusCode)
	}
	return resp, nil
}
