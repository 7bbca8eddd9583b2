// Package connection talks to the roster HTTP API.
//
// Requests go through a chain of http.RoundTripper stages, outermost
// first:
//
//   - RequestID: X-Request-ID (ULID) on every request
//   - UserAgent
//   - Authorizer: bearer token in; 401/403 out invalidates the session
//   - Logging
//   - Instrument: per-route request metrics
//   - RateLimit: optional client-side throttle
//   - otelhttp: client spans, when tracing is enabled
//   - http.Transport with the configured CA roots
//
// AuthClient and EmployeeClient are thin typed wrappers. They return
// *StatusError for non-2xx responses and transport errors unchanged;
// classification happens in the service layer.
package connection
