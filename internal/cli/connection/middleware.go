package connection

import (
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/roster-go/internal/infra/buildinfo"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// RequestIDHeader carries the per-request ULID.
const RequestIDHeader = "X-Request-ID"

// DefaultUserAgent identifies this client and its version.
var DefaultUserAgent = "roster-cli/" + buildinfo.Version

// Middleware decorates a RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain wraps base with stages; the first stage is outermost.
func Chain(base http.RoundTripper, stages ...Middleware) http.RoundTripper {
	rt := base
	for i := len(stages) - 1; i >= 0; i-- {
		rt = stages[i](rt)
	}
	return rt
}

// RequestID sets X-Request-ID to a fresh ULID unless the caller set one,
// and records it in the request context for logging.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = ulid.Make().String()
			}
			ctx := logger.WithRequestID(r.Context(), id)
			r = r.Clone(ctx)
			r.Header.Set(RequestIDHeader, id)
			return next.RoundTrip(r)
		})
	}
}

// UserAgent sets the User-Agent header.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r = r.Clone(r.Context())
			r.Header.Set("User-Agent", ua)
			return next.RoundTrip(r)
		})
	}
}

// RateLimit blocks each request until limiter admits it or the request
// context ends.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if err := limiter.Wait(r.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(r)
		})
	}
}

// Logging writes one debug line per exchange. Headers are never logged.
func Logging(log *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			l := logger.ForRequest(r.Context(), log).With(
				"method", r.Method,
				"route", RouteOf(r.URL.Path),
				"elapsed", time.Since(start),
			)
			if err != nil {
				l.Debug("http request failed", "error", err)
			} else {
				l.Debug("http request", "status", resp.StatusCode)
			}
			return resp, err
		})
	}
}

// RequestObserver records completed exchanges. Status is 0 when no
// response was received.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Instrument reports every exchange to obs.
func Instrument(obs RequestObserver) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			status := 0
			if err == nil {
				status = resp.StatusCode
			}
			obs.ObserveRequest(r.Method, RouteOf(r.URL.Path), status, time.Since(start))
			return resp, err
		})
	}
}

var idSegment = regexp.MustCompile(`/\d+(/|$)`)

// RouteOf replaces numeric path segments with {id} so metrics and span
// names stay low-cardinality.
func RouteOf(path string) string {
	return idSegment.ReplaceAllString(path, "/{id}${1}")
}
