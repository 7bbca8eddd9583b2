package logger

import (
	"context"
	"log/slog"
)

type requestIDKey struct{}

// WithRequestID records the X-Request-ID of an outgoing call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the recorded request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ForRequest returns l annotated with the request ID carried by ctx.
func ForRequest(ctx context.Context, l *slog.Logger) *slog.Logger {
	l = OrDefault(l)
	if id := RequestIDFromContext(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}
