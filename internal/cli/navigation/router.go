package navigation

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/yndnr/roster-go/internal/core/service"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// Route names a view.
type Route string

const (
	RouteLogin  Route = "login"
	RouteList   Route = "employees"
	RouteNew    Route = "employees/new"
	RouteDetail Route = "employees/:id"
	RouteEdit   Route = "employees/:id/edit"
)

// Redirect reasons.
const (
	ReasonSessionExpired = "Session expired. Please login again."
	ReasonLoginRequired  = "login required"
	ReasonLoggedOut      = "logged out"
	ReasonUnknownRoute   = "unknown route"
)

// Guarded reports whether the route requires an authenticated session.
func (r Route) Guarded() bool {
	return r != RouteLogin
}

// Location is a resolved route. ID is the raw path segment for the
// detail and edit routes; the views validate it.
type Location struct {
	Route Route
	ID    string
	// Reason is set when the router redirected instead of honoring the
	// requested path.
	Reason string
}

// Path renders the location back into a path.
func (l Location) Path() string {
	switch l.Route {
	case RouteDetail:
		return "employees/" + l.ID
	case RouteEdit:
		return "employees/" + l.ID + "/edit"
	default:
		return string(l.Route)
	}
}

func (l Location) same(o Location) bool {
	return l.Route == o.Route && l.ID == o.ID
}

// Match resolves a path against the route table without gating.
func Match(path string) Location {
	parts := strings.Split(strings.Trim(strings.TrimSpace(path), "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "login":
		return Location{Route: RouteLogin}
	case len(parts) == 1 && parts[0] == "employees":
		return Location{Route: RouteList}
	case len(parts) == 2 && parts[0] == "employees" && parts[1] == "new":
		return Location{Route: RouteNew}
	case len(parts) == 2 && parts[0] == "employees":
		return Location{Route: RouteDetail, ID: parts[1]}
	case len(parts) == 3 && parts[0] == "employees" && parts[2] == "edit":
		return Location{Route: RouteEdit, ID: parts[1]}
	default:
		return Location{Route: RouteList, Reason: ReasonUnknownRoute}
	}
}

// Gate decides access to guarded routes.
type Gate interface {
	IsAuthenticated() bool
}

// Router tracks the current location.
type Router struct {
	gate   Gate
	logger *slog.Logger

	mu        sync.Mutex
	current   Location
	listeners []func(Location)
}

// NewRouter creates a router positioned according to the gate: the list
// when authenticated, login otherwise.
func NewRouter(gate Gate, log *slog.Logger) *Router {
	r := &Router{gate: gate, logger: logger.OrDefault(log)}
	r.current = r.resolve(string(RouteList))
	return r
}

// Current returns the current location.
func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnChange registers a listener called after each location change.
// Listeners run on the goroutine that caused the change.
func (r *Router) OnChange(fn func(Location)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Navigate resolves path, applies the gate and moves there. Repeated
// navigation to the current location is a no-op.
func (r *Router) Navigate(path string) Location {
	return r.moveTo(r.resolve(path))
}

// ToList moves to the employee list.
func (r *Router) ToList() {
	r.Navigate(string(RouteList))
}

// ToLogin moves to the login view.
func (r *Router) ToLogin(reason string) {
	r.moveTo(Location{Route: RouteLogin, Reason: reason})
}

// HandleSessionEvent applies session changes to the current location.
func (r *Router) HandleSessionEvent(ev service.SessionEvent) {
	switch ev.Type {
	case service.EventInvalidated:
		r.ToLogin(ReasonSessionExpired)
	case service.EventLoggedOut:
		r.ToLogin(ReasonLoggedOut)
	case service.EventLoggedIn:
		if r.Current().Route == RouteLogin {
			r.ToList()
		}
	}
}

// Follow subscribes the router to a session manager.
func (r *Router) Follow(s *service.SessionManager) (unsubscribe func()) {
	return s.Subscribe(r.HandleSessionEvent)
}

func (r *Router) resolve(path string) Location {
	loc := Match(path)
	if loc.Route.Guarded() && (r.gate == nil || !r.gate.IsAuthenticated()) {
		return Location{Route: RouteLogin, Reason: ReasonLoginRequired}
	}
	return loc
}

func (r *Router) moveTo(loc Location) Location {
	r.mu.Lock()
	if r.current.same(loc) {
		cur := r.current
		r.mu.Unlock()
		return cur
	}
	from := r.current
	r.current = loc
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	r.logger.Debug("navigate", "from", from.Path(), "to", loc.Path(), "reason", loc.Reason)
	for _, fn := range listeners {
		fn(loc)
	}
	return loc
}
