package storage

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/yndnr/roster-go/internal/storage/memory"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// TokenKey names the one persisted entry in every durable backend.
const TokenKey = "roster/access_token"

// Store holds at most one opaque token.
type Store interface {
	// Save replaces the stored token.
	Save(token string)

	// Read returns the stored token, or false when there is none.
	Read() (string, bool)

	// Clear removes the token. Clearing an empty store is a no-op.
	Clear()
}

// ClosableStore is a Store backed by a resource that must be released.
type ClosableStore interface {
	Store
	io.Closer
}

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config selects and locates a backend.
type Config struct {
	Backend string
	Dir     string
}

// Open returns the backend described by cfg.
func Open(cfg Config, log *slog.Logger) (ClosableStore, error) {
	log = logger.OrDefault(log).With("component", "storage")

	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return memory.New(), nil
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("storage: dir is required for the file backend")
		}
		return NewFileStore(filepath.Join(cfg.Dir, "token"), log)
	case BackendBadger:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("storage: dir is required for the badger backend")
		}
		return NewBadgerStore(filepath.Join(cfg.Dir, "badger"), log)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
