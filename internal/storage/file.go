package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/yndnr/roster-go/internal/telemetry/logger"
	"github.com/yndnr/roster-go/pkg/crypto/adaptive"
	"github.com/yndnr/roster-go/pkg/token"
)

// FileStore keeps the token sealed in a single file. The sealing key
// lives next to it in <path>.key.
type FileStore struct {
	path   string
	sealer *adaptive.Sealer
	logger *slog.Logger

	mu sync.Mutex
}

// NewFileStore opens (or prepares) the token file at path.
func NewFileStore(path string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	key, err := adaptive.LoadOrCreateKey(path + ".key")
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	sealer, err := adaptive.New(key)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &FileStore{
		path:   path,
		sealer: sealer,
		logger: logger.OrDefault(log),
	}, nil
}

// Path returns the token file location.
func (s *FileStore) Path() string {
	return s.path
}

// Save seals the token and replaces the file atomically.
func (s *FileStore) Save(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := s.sealer.Seal([]byte(tok), []byte(TokenKey))
	if err != nil {
		s.logger.Error("seal token failed", "error", err)
		return
	}
	if err := writeFileAtomic(s.path, sealed); err != nil {
		s.logger.Error("write token file failed", "path", s.path, "error", err)
		return
	}
	s.logger.Debug("token saved", "fingerprint", token.Fingerprint(tok))
}

// Read returns the stored token. Missing, unreadable or tampered files
// all read as absent.
func (s *FileStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("read token file failed", "path", s.path, "error", err)
		return "", false
	}
	plain, err := s.sealer.Open(sealed, []byte(TokenKey))
	if err != nil {
		s.logger.Warn("token file could not be opened, treating as logged out", "path", s.path, "error", err)
		return "", false
	}
	return string(plain), true
}

// Clear removes the token file.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("remove token file failed", "path", s.path, "error", err)
	}
}

// Close is a no-op; every operation opens the file on demand.
func (s *FileStore) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".token-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
