package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yndnr/roster-go/internal/core/domain"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
	"github.com/yndnr/roster-go/pkg/token"
)

// ErrTokenNotStored is the cause of a login whose token the store did not
// keep.
var ErrTokenNotStored = errors.New("service: token not stored")

// TokenStore is the persistence the session needs. storage.Store
// satisfies it.
type TokenStore interface {
	Save(token string)
	Read() (string, bool)
	Clear()
}

// AuthAPI performs the login exchange. Failures are returned raw; an
// error carrying an HTTP status should implement StatusCoder.
type AuthAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.Credential, error)
}

// EventType identifies a session change.
type EventType int

const (
	EventLoggedIn EventType = iota + 1
	EventLoggedOut
	EventInvalidated
)

// String returns the event name used in logs.
func (t EventType) String() string {
	switch t {
	case EventLoggedIn:
		return "logged_in"
	case EventLoggedOut:
		return "logged_out"
	case EventInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// SessionEvent is delivered to subscribers after the session changes.
type SessionEvent struct {
	Type EventType

	// Status is the HTTP status that caused an EventInvalidated.
	Status int
}

// SessionManager owns the access token and the derived authenticated flag.
type SessionManager struct {
	api    AuthAPI
	store  TokenStore
	logger *slog.Logger

	mu            sync.RWMutex
	authenticated bool
	subs          map[uint64]func(SessionEvent)
	nextSub       uint64
}

// NewSessionManager builds a manager whose initial state is probed from
// store: a stored token means authenticated.
func NewSessionManager(api AuthAPI, store TokenStore, log *slog.Logger) *SessionManager {
	_, ok := store.Read()
	return &SessionManager{
		api:           api,
		store:         store,
		logger:        logger.OrDefault(log).With("component", "session"),
		authenticated: ok,
		subs:          make(map[uint64]func(SessionEvent)),
	}
}

// Login exchanges credentials for a token. On any failure the session is
// left unauthenticated and a previously stored token is not touched.
func (m *SessionManager) Login(ctx context.Context, username, password string) error {
	req := domain.LoginRequest{Username: username, Password: password}
	if err := req.Validate(); err != nil {
		return err
	}

	cred, err := m.api.Login(ctx, req)
	if err != nil {
		m.setAuthenticated(false)
		classified := classifyLogin(err)
		m.logger.Warn("login failed", "user", username, "kind", classified.Kind, "error", err)
		return classified
	}
	if !cred.Valid() {
		m.setAuthenticated(false)
		m.logger.Warn("login response missing access token", "user", username)
		return domain.ErrMalformedResponse.WithOp(domain.OpLogin)
	}

	m.store.Save(cred.AccessToken)
	if saved, ok := m.store.Read(); !ok || saved != cred.AccessToken {
		m.setAuthenticated(false)
		m.logger.Error("login token could not be stored", "user", username)
		return domain.ErrUnknown.WithOp(domain.OpLogin).WithCause(ErrTokenNotStored)
	}
	m.setAuthenticated(true)
	m.logger.Info("logged in", "user", username, "fingerprint", token.Fingerprint(cred.AccessToken))
	m.emit(SessionEvent{Type: EventLoggedIn})
	return nil
}

// Logout clears the token. Calling it while logged out is a no-op.
func (m *SessionManager) Logout() {
	_, hadToken := m.store.Read()
	m.store.Clear()
	wasAuthenticated := m.setAuthenticated(false)

	if hadToken || wasAuthenticated {
		m.logger.Info("logged out")
		m.emit(SessionEvent{Type: EventLoggedOut})
	}
}

// Invalidate is the logout triggered by a rejected request. It always
// emits EventInvalidated so subscribers can redirect to login.
func (m *SessionManager) Invalidate(status int) {
	m.store.Clear()
	m.setAuthenticated(false)
	m.logger.Warn("session invalidated", "status", status)
	m.emit(SessionEvent{Type: EventInvalidated, Status: status})
}

// IsAuthenticated reports the current session state.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Token reads the stored token.
func (m *SessionManager) Token() (string, bool) {
	tok, ok := m.store.Read()
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// Claims decodes the stored token's JWT claims without verifying the
// signature. The result is for display only.
func (m *SessionManager) Claims() (*domain.TokenClaims, bool) {
	tok, ok := m.Token()
	if !ok {
		return nil, false
	}

	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &rc); err != nil {
		m.logger.Debug("token is not a decodable JWT", "error", err)
		return nil, false
	}

	claims := &domain.TokenClaims{Subject: rc.Subject, Issuer: rc.Issuer}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	return claims, true
}

// Expired reports whether the decoded claims say the token has expired.
// Tokens without claims are never reported expired.
func (m *SessionManager) Expired(now time.Time) bool {
	c, ok := m.Claims()
	return ok && c.Expired(now)
}

// Subscribe registers fn for session events. The returned function
// removes the subscription.
func (m *SessionManager) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// setAuthenticated stores v and returns the previous value.
func (m *SessionManager) setAuthenticated(v bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.authenticated
	m.authenticated = v
	return prev
}

// emit calls subscribers outside the lock, in registration order.
func (m *SessionManager) emit(ev SessionEvent) {
	m.mu.RLock()
	ids := make([]uint64, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	fns := make(map[uint64]func(SessionEvent), len(m.subs))
	for id, fn := range m.subs {
		fns[id] = fn
	}
	m.mu.RUnlock()

	slices.Sort(ids)
	m.logger.Debug("session event", "type", ev.Type.String(), "subscribers", len(ids))
	for _, id := range ids {
		fns[id](ev)
	}
}
