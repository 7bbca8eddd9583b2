package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/yndnr/roster-go/internal/core/domain"
)

// Phase is a view's position in its load cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether p ends a cycle.
func (p Phase) Terminal() bool {
	return p == PhaseLoaded || p == PhaseFailed
}

// State is a snapshot of one view.
type State[T any] struct {
	Phase Phase
	Data  T
	Err   *domain.Error

	// Cycle increases every time the view starts loading or is settled
	// without a request.
	Cycle uint64
}

// Observer is notified of view transitions and dropped results.
type Observer interface {
	ViewTransition(view, phase string)
	StaleResult(view string)
}

type nopObserver struct{}

func (nopObserver) ViewTransition(string, string) {}
func (nopObserver) StaleResult(string)            {}

// errViewTimeout is what the cycle timer reports; it never leaves the view.
var errViewTimeout = errors.New("view timeout")

// cycle is one in-flight load.
type cycle struct {
	id     uint64
	cancel context.CancelFunc
	timer  *time.Timer
	done   chan struct{}
}

// view is the state machine shared by every view kind.
//
// Subscribers run synchronously, in order, on the goroutine that made
// the transition. They must not start a transition on the same view.
type view[T any] struct {
	name     string
	op       domain.Op
	timeout  time.Duration
	fetch    func(ctx context.Context) (T, error)
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	state   State[T]
	cur     *cycle
	exited  bool
	subs    map[uint64]func(State[T])
	nextSub uint64

	notifyMu sync.Mutex
}

func newView[T any](name string, op domain.Op, c *Controller, fetch func(ctx context.Context) (T, error)) *view[T] {
	return &view[T]{
		name:     name,
		op:       op,
		timeout:  c.timeout,
		fetch:    fetch,
		logger:   c.logger.With("view", name),
		observer: c.observer,
		subs:     make(map[uint64]func(State[T])),
	}
}

// State returns the current snapshot.
func (v *view[T]) State() State[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Subscribe registers fn for every transition of this view.
func (v *view[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.exited {
		return func() {}
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Wait blocks until the current cycle is terminal or ctx is done, and
// returns the state at that point.
func (v *view[T]) Wait(ctx context.Context) State[T] {
	for {
		v.mu.Lock()
		c, s := v.cur, v.state
		v.mu.Unlock()
		if c == nil {
			return s
		}
		select {
		case <-c.done:
		case <-ctx.Done():
			return v.State()
		}
	}
}

// Exit abandons any in-flight cycle and detaches subscribers. Later
// transitions are ignored.
func (v *view[T]) Exit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.exited {
		return
	}
	v.exited = true
	v.abandonLocked()
	v.subs = nil
	v.logger.Debug("view exited", "cycle", v.state.Cycle)
}

// begin starts a new load cycle, abandoning the previous one.
func (v *view[T]) begin(ctx context.Context) {
	v.mu.Lock()
	if v.exited {
		v.mu.Unlock()
		return
	}
	v.abandonLocked()

	v.state.Cycle++
	v.state.Phase = PhaseLoading
	v.state.Err = nil

	fctx, cancel := context.WithCancel(ctx)
	c := &cycle{id: v.state.Cycle, cancel: cancel, done: make(chan struct{})}
	v.cur = c

	var zero T
	c.timer = time.AfterFunc(v.timeout, func() {
		v.finish(c, zero, errViewTimeout)
	})
	go func() {
		data, err := v.fetch(fctx)
		v.finish(c, data, err)
	}()

	v.logger.Debug("loading", "cycle", c.id)
	v.publishLocked()
}

// finish applies the outcome of c if c is still the live cycle. The
// first caller wins; the other side's request context is canceled.
func (v *view[T]) finish(c *cycle, data T, err error) {
	v.mu.Lock()
	if v.cur != c || v.state.Phase != PhaseLoading {
		v.mu.Unlock()
		v.logger.Debug("stale result discarded", "cycle", c.id)
		v.observer.StaleResult(v.name)
		return
	}
	v.cur = nil
	c.timer.Stop()
	c.cancel()
	close(c.done)

	if err != nil {
		if errors.Is(err, errViewTimeout) {
			v.state.Err = domain.ErrTimeout.WithOp(v.op)
		} else {
			v.state.Err = classify(err, v.op)
		}
		v.state.Phase = PhaseFailed
		v.logger.Info("load failed", "cycle", c.id, "kind", v.state.Err.Kind, "error", err)
	} else {
		v.state.Phase = PhaseLoaded
		v.state.Data = data
		v.state.Err = nil
		v.logger.Debug("loaded", "cycle", c.id)
	}
	v.publishLocked()
}

// settle moves straight to Loaded with data, without a request.
func (v *view[T]) settle(data T) {
	v.mu.Lock()
	if v.exited {
		v.mu.Unlock()
		return
	}
	v.abandonLocked()
	v.state.Cycle++
	v.state.Phase = PhaseLoaded
	v.state.Data = data
	v.state.Err = nil
	v.publishLocked()
}

// fail moves to Failed with e in a cycle of its own, keeping Data.
func (v *view[T]) fail(e *domain.Error) {
	v.mu.Lock()
	if v.exited {
		v.mu.Unlock()
		return
	}
	v.abandonLocked()
	v.state.Cycle++
	v.state.Phase = PhaseFailed
	v.state.Err = e
	v.publishLocked()
}

func (v *view[T]) abandonLocked() {
	c := v.cur
	if c == nil {
		return
	}
	v.cur = nil
	c.timer.Stop()
	c.cancel()
	close(c.done)
	v.logger.Debug("cycle abandoned", "cycle", c.id)
}

// publishLocked delivers the current state to subscribers. It must be
// called with v.mu held and releases it. notifyMu is taken before mu is
// released so deliveries arrive in transition order.
func (v *view[T]) publishLocked() {
	s := v.state
	ids := make([]uint64, 0, len(v.subs))
	for id := range v.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(State[T]), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.subs[id])
	}

	v.notifyMu.Lock()
	v.mu.Unlock()
	defer v.notifyMu.Unlock()

	v.observer.ViewTransition(v.name, s.Phase.String())
	for _, fn := range fns {
		fn(s)
	}
}
