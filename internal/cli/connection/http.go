package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/yndnr/roster-go/internal/core/domain"
	"github.com/yndnr/roster-go/internal/infra/tlsroots"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// DefaultTimeout is the transport-level request timeout.
const DefaultTimeout = 30 * time.Second

// Options configures an HTTPClient.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api.
	BaseURL string

	// Timeout bounds each exchange at the transport (default 30s).
	Timeout time.Duration

	// UserAgent overrides the default User-Agent.
	UserAgent string

	// Session enables the Authorizer stage when set.
	Session Session

	// RateLimit caps requests per second; 0 disables the limiter.
	RateLimit float64

	// CAFile adds a private CA bundle to the system roots.
	CAFile string

	// Tracing wraps the transport with otelhttp.
	Tracing bool

	// Observer receives per-request metrics.
	Observer RequestObserver

	Logger *slog.Logger

	// Transport replaces the base transport (tests).
	Transport http.RoundTripper
}

// HTTPClient sends JSON requests relative to a base URL.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPClient builds a client and its round-tripper chain.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("connection: base url is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	log := logger.OrDefault(opts.Logger).With("component", "http")

	base := opts.Transport
	if base == nil {
		tlsCfg, err := tlsroots.ClientConfig(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("connection: %w", err)
		}
		t := http.DefaultTransport.(*http.Transport).Clone()
		if tlsCfg != nil {
			t.TLSClientConfig = tlsCfg
		}
		base = t
	}
	if opts.Tracing {
		base = otelhttp.NewTransport(base,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + RouteOf(r.URL.Path)
			}))
	}

	stages := []Middleware{
		RequestID(),
		UserAgent(opts.UserAgent),
	}
	if opts.Session != nil {
		stages = append(stages, func(next http.RoundTripper) http.RoundTripper {
			return NewAuthorizer(next, opts.Session, log)
		})
	}
	stages = append(stages, Logging(log))
	if opts.Observer != nil {
		stages = append(stages, Instrument(opts.Observer))
	}
	if opts.RateLimit > 0 {
		stages = append(stages, RateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), 1)))
	}

	return &HTTPClient{
		baseURL: baseURL,
		logger:  log,
		client: &http.Client{
			Transport: Chain(base, stages...),
			Timeout:   opts.Timeout,
		},
	}, nil
}

// BaseURL returns the normalized API root.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Do sends a request with an optional JSON body.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.client.Do(req)
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Code       string // Error code from the body, if any
	Message    string // Server message, never shown to users as is
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("status %d: [%s] %s", e.StatusCode, e.Code, e.Message)
		}
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// HTTPStatus returns the response status.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// maxErrorBody limits how much of an error body is read.
const maxErrorBody = 64 << 10

// ParseResponse closes resp.Body. A non-2xx status yields *StatusError;
// a 2xx body that does not decode into target yields an error matching
// domain.ErrMalformedResponse.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var body struct {
			Code    string `json:"code"`
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil {
			se.Code = body.Code
			if se.Code == "" {
				se.Code = body.Error
			}
			se.Message = body.Message
		}
		return se
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return domain.ErrMalformedResponse.WithCause(fmt.Errorf("parse response: %w", err))
		}
	}
	return nil
}
