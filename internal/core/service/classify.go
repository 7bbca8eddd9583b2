package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/yndnr/roster-go/internal/core/domain"
)

// StatusCoder is implemented by errors that carry an HTTP response status.
type StatusCoder interface {
	HTTPStatus() int
}

// StatusOf returns the HTTP status carried by err, or 0 when no response
// was received.
func StatusOf(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}

// classify maps a resource call failure to a view error for op.
func classify(err error, op domain.Op) *domain.Error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindValidation {
		return de.WithOp(op)
	}

	var base *domain.Error
	switch status := StatusOf(err); {
	case status == http.StatusNotFound:
		base = domain.ErrNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		base = domain.ErrUnauthorized
	case status != 0:
		base = domain.ErrUnknown
	case errors.Is(err, domain.ErrMalformedResponse):
		base = domain.ErrUnknown
	case isTimeout(err):
		base = domain.ErrTimeout
	case errors.Is(err, context.Canceled):
		base = domain.ErrUnknown
	default:
		base = domain.ErrUnreachable
	}
	return base.WithOp(op).WithCause(err)
}

// classifyLogin maps a login failure. Rejected credentials are not a
// session expiry, so 401/403 become InvalidCredentials here.
func classifyLogin(err error) *domain.Error {
	var base *domain.Error
	switch status := StatusOf(err); {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		base = domain.ErrInvalidCredentials
	case status != 0:
		base = domain.ErrUnknown
	case errors.Is(err, domain.ErrMalformedResponse):
		base = domain.ErrMalformedResponse
	case errors.Is(err, context.Canceled):
		base = domain.ErrUnknown
	default:
		base = domain.ErrUnreachable
	}
	return base.WithOp(domain.OpLogin).WithCause(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
