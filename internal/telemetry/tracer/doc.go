// Package tracer configures OpenTelemetry tracing for the roster client.
//
// Tracing is off unless telemetry.otlp_endpoint is set. When enabled the
// HTTP transport is wrapped with otelhttp so every API exchange becomes a
// client span exported over OTLP/HTTP.
package tracer
