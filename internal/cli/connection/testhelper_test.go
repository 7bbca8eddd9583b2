package connection

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// fakeSession records invalidations.
type fakeSession struct {
	mu          sync.Mutex
	token       string
	invalidated []int
}

func (s *fakeSession) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *fakeSession) Invalidate(status int) {
	s.mu.Lock()
	s.token = ""
	s.invalidated = append(s.invalidated, status)
	s.mu.Unlock()
}

func (s *fakeSession) invalidations() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.invalidated...)
}

// mockServer creates a test server with the given handler.
func mockServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// jsonResponse writes status and body as JSON.
func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func newTestClient(t *testing.T, baseURL string, session Session) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(Options{BaseURL: baseURL, Session: session, Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	return c
}
