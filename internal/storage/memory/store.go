package memory

import "sync"

// Store keeps the token in memory. The zero value is ready to use.
type Store struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Save replaces the token.
func (s *Store) Save(token string) {
	s.mu.Lock()
	s.token, s.set = token, true
	s.mu.Unlock()
}

// Read returns the token if one is stored.
func (s *Store) Read() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set
}

// Clear drops the token.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token, s.set = "", false
	s.mu.Unlock()
}

// Close is a no-op; it lets Store stand in for the durable backends.
func (s *Store) Close() error {
	return nil
}
