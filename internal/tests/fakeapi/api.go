package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yndnr/roster-go/internal/core/domain"
)

// Default credentials seeded into every API.
const (
	DefaultUsername = "admin"
	DefaultPassword = "password123"
)

const basePath = "/api"

// API is an http.Handler holding employees in memory.
type API struct {
	secret []byte
	ttl    time.Duration

	mu        sync.Mutex
	users     map[string]string
	employees map[int64]domain.Employee
	nextID    int64
	rotations int
	delay     time.Duration
	forced    map[string]int // "METHOD /path" -> status
	requests  []string
}

// New creates an API with the default user and no employees.
func New() *API {
	return &API{
		secret:    []byte("fakeapi-signing-key"),
		ttl:       time.Hour,
		users:     map[string]string{DefaultUsername: DefaultPassword},
		employees: make(map[int64]domain.Employee),
		nextID:    1,
		forced:    make(map[string]int),
	}
}

// Start serves api on a loopback server closed at test cleanup and
// returns the base URL including /api.
func Start(t testing.TB, api *API) string {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return srv.URL + basePath
}

// AddUser registers a login.
func (a *API) AddUser(username, password string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[username] = password
}

// Seed stores e with the next id and returns it.
func (a *API) Seed(e domain.Employee) domain.Employee {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.insertLocked(e)
}

// Employees returns the stored records ordered by id.
func (a *API) Employees() []domain.Employee {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listLocked()
}

// SetDelay adds latency to every request.
func (a *API) SetDelay(d time.Duration) {
	a.mu.Lock()
	a.delay = d
	a.mu.Unlock()
}

// Force makes method+path (path relative to /api, e.g. "/employees/1")
// answer status. A zero status clears it.
func (a *API) Force(method, path string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(a.forced, key)
		return
	}
	a.forced[key] = status
}

// RevokeAll invalidates every token issued so far by rotating the
// signing key.
func (a *API) RevokeAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rotations++
	a.secret = []byte("fakeapi-signing-key-" + strconv.Itoa(a.rotations))
}

// Requests returns "METHOD /path" for every request served.
func (a *API) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requests...)
}

// Token mints a valid token for username without a login round trip.
func (a *API) Token(username string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	tok, _ := a.mintLocked(username)
	return tok
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, basePath), "/")

	a.mu.Lock()
	a.requests = append(a.requests, r.Method+" "+path)
	delay := a.delay
	forced, isForced := a.forced[r.Method+" "+path]
	a.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if isForced {
		writeError(w, forced, http.StatusText(forced), "forced status")
		return
	}

	if path == "/auth/login" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
			return
		}
		a.login(w, r)
		return
	}

	if !strings.HasPrefix(path, "/employees") {
		writeError(w, http.StatusNotFound, "Not Found", "no route "+path)
		return
	}
	if !a.authorized(r) {
		writeError(w, http.StatusForbidden, "Forbidden", "Access Denied")
		return
	}

	rest := strings.TrimPrefix(path, "/employees")
	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			a.mu.Lock()
			list := a.listLocked()
			a.mu.Unlock()
			writeJSON(w, http.StatusOK, list)
		case http.MethodPost:
			a.create(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
		}
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(rest, "/"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.get(w, id)
	case http.MethodPut:
		a.update(w, r, id)
	case http.MethodDelete:
		a.delete(w, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
	}
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Validate() != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "username and password are required")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if pw, ok := a.users[req.Username]; !ok || pw != req.Password {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Bad credentials")
		return
	}
	tok, err := a.mintLocked(req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, domain.Credential{AccessToken: tok, TokenType: domain.TokenTypeBearer})
}

func (a *API) mintLocked(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    "fakeapi",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *API) authorized(r *http.Request) bool {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return false
	}
	a.mu.Lock()
	secret := a.secret
	a.mu.Unlock()

	tok, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	return err == nil && tok.Valid
}

func (a *API) get(w http.ResponseWriter, id int64) {
	a.mu.Lock()
	e, ok := a.employees[id]
	a.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Employee not found with id %d", id))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.emailTakenLocked(e.Email, 0) {
		writeError(w, http.StatusBadRequest, "Bad Request", "Email already in use")
		return
	}
	writeJSON(w, http.StatusCreated, a.insertLocked(e))
}

func (a *API) update(w http.ResponseWriter, r *http.Request, id int64) {
	e, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.employees[id]; !exists {
		writeError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Employee not found with id %d", id))
		return
	}
	if a.emailTakenLocked(e.Email, id) {
		writeError(w, http.StatusBadRequest, "Bad Request", "Email already in use")
		return
	}
	e = e.WithID(id)
	a.employees[id] = e
	writeJSON(w, http.StatusOK, e)
}

func (a *API) delete(w http.ResponseWriter, id int64) {
	a.mu.Lock()
	_, ok := a.employees[id]
	delete(a.employees, id)
	a.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Employee not found with id %d", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) insertLocked(e domain.Employee) domain.Employee {
	e = e.WithID(a.nextID)
	a.employees[a.nextID] = e
	a.nextID++
	return e
}

func (a *API) listLocked() []domain.Employee {
	ids := make([]int64, 0, len(a.employees))
	for id := range a.employees {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]domain.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.employees[id])
	}
	return out
}

func (a *API) emailTakenLocked(email string, except int64) bool {
	for id, e := range a.employees {
		if id != except && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

func decodeEmployee(w http.ResponseWriter, r *http.Request) (domain.Employee, bool) {
	var e domain.Employee
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "malformed employee")
		return e, false
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return e, false
	}
	return e, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errText, message string) {
	writeJSON(w, status, map[string]string{"error": errText, "message": message})
}
