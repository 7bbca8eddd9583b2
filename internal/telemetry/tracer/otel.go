package tracer

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "roster-cli"

// Config selects the exporter.
type Config struct {
	// Endpoint is host:port or a URL. Empty disables tracing.
	Endpoint string
	// Version is reported as service.version.
	Version string
}

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

// Enabled reports whether cfg turns tracing on.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// Init installs a global tracer provider exporting to cfg.Endpoint. With
// no endpoint it installs nothing and returns a no-op shutdown.
func Init(ctx context.Context, cfg Config, log *slog.Logger) (ShutdownFunc, error) {
	log = logger.OrDefault(log)
	if !cfg.Enabled() {
		log.Debug("tracing disabled: no otlp endpoint")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, exporterOptions(cfg.Endpoint)...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	log.Info("tracing initialized", "endpoint", cfg.Endpoint)
	return tp.Shutdown, nil
}

// exporterOptions accepts either a bare host:port (plain HTTP) or a URL.
func exporterOptions(endpoint string) []otlptracehttp.Option {
	endpoint = strings.TrimSpace(endpoint)
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(endpoint)}
		if strings.HasPrefix(endpoint, "http://") {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return opts
	}
	return []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	}
}

// Start opens a span on the global provider.
func Start(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(ServiceName).Start(ctx, name)
}
