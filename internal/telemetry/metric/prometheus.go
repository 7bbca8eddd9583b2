package metric

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

const namespace = "roster"

// Registry holds all client metrics.
type Registry struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionEvents *prometheus.CounterVec

	// View metrics
	ViewTransitions *prometheus.CounterVec
	StaleResults    *prometheus.CounterVec
}

// NewRegistry creates a registry with the client metrics and the Go
// runtime collector registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "API exchanges by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "API exchange latency.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		SessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session lifecycle events by type.",
		}, []string{"event"}),
		ViewTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_transitions_total",
			Help:      "View phase transitions.",
		}, []string{"view", "phase"}),
		StaleResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_stale_results_total",
			Help:      "Fetch results discarded because their cycle was no longer current.",
		}, []string{"view"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		r.RequestsTotal,
		r.RequestDuration,
		r.SessionEvents,
		r.ViewTransitions,
		r.StaleResults,
	)
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveRequest records one completed exchange. A zero status means no
// response was received.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.RequestsTotal.WithLabelValues(method, route, label).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SessionEvent counts a session lifecycle event.
func (r *Registry) SessionEvent(event string) {
	r.SessionEvents.WithLabelValues(event).Inc()
}

// ViewTransition counts a view entering phase.
func (r *Registry) ViewTransition(view, phase string) {
	r.ViewTransitions.WithLabelValues(view, phase).Inc()
}

// StaleResult counts a discarded fetch result.
func (r *Registry) StaleResult(view string) {
	r.StaleResults.WithLabelValues(view).Inc()
}

// WriteText encodes every gathered family in the Prometheus text format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// DumpFile writes the text exposition to path, replacing any previous dump.
func (r *Registry) DumpFile(path string) error {
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
