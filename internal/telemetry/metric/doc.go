// Package metric provides Prometheus metrics for the roster client.
//
// The registry is private to the process and is never served over HTTP.
// It records:
//
//   - API exchanges by method, route and status, with latency histograms
//   - session lifecycle events (login, logout, invalidation)
//   - view phase transitions and results dropped as stale
//
// When telemetry.metrics_file is configured the registry is written in
// the Prometheus text format on exit, see Registry.DumpFile.
package metric
