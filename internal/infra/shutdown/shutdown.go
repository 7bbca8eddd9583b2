package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// DefaultTimeout bounds all hooks together.
const DefaultTimeout = 5 * time.Second

type hook struct {
	name string
	fn   func(context.Context) error
}

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	stop   context.CancelFunc

	mu    sync.Mutex
	hooks []hook

	once sync.Once
	err  error
	done chan struct{}
}

// NewHandler creates a handler listening for SIGINT and SIGTERM.
func NewHandler(timeout time.Duration, log *slog.Logger) *Handler {
	return newHandler(timeout, log, syscall.SIGINT, syscall.SIGTERM)
}

func newHandler(timeout time.Duration, log *slog.Logger, signals ...os.Signal) *Handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	ctx, cancel := context.WithCancel(sigCtx)
	return &Handler{
		timeout: timeout,
		logger:  logger.OrDefault(log),
		ctx:     ctx,
		cancel:  cancel,
		stop:    stop,
		done:    make(chan struct{}),
	}
}

// Context is canceled on a signal or on Shutdown.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// OnShutdown registers a hook. Hooks run in reverse order of registration.
func (h *Handler) OnShutdown(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook{name: name, fn: fn})
}

// OnClose registers an io.Closer style function.
func (h *Handler) OnClose(name string, fn func() error) {
	h.OnShutdown(name, func(context.Context) error { return fn() })
}

// Shutdown cancels the root context and runs every hook once. Later calls
// return the first result. Hook failures are joined.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		h.cancel()
		h.stop()

		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := append([]hook(nil), h.hooks...)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			hk := hooks[i]
			if err := hk.fn(ctx); err != nil {
				h.logger.Warn("shutdown hook failed", "hook", hk.name, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", hk.name, err))
				continue
			}
			h.logger.Debug("shutdown hook done", "hook", hk.name)
		}
		h.err = errors.Join(errs...)
		close(h.done)
	})
	return h.err
}

// Done closes when Shutdown has finished.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
