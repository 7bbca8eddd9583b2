package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/roster-go/internal/telemetry/logger"
	"github.com/yndnr/roster-go/pkg/token"
)

// ErrClosed is logged when a BadgerStore is used after Close.
var ErrClosed = errors.New("storage: store closed")

// BadgerStore keeps the token under TokenKey in an embedded Badger
// database. Badger takes a directory lock, so only one process can hold
// the store open at a time.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewBadgerStore opens or creates the database in dir.
func NewBadgerStore(dir string, log *slog.Logger) (*BadgerStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	log = logger.OrDefault(log)

	// One small key: keep the files small and every write durable.
	opts := badger.DefaultOptions(dir).
		WithLogger(badgerLog{l: log}).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithValueLogFileSize(1 << 20).
		WithMemTableSize(8 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}
	return &BadgerStore{db: db, logger: log}, nil
}

// Save replaces the token.
func (s *BadgerStore) Save(tok string) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(TokenKey), []byte(tok))
	})
	if err != nil {
		s.logger.Error("badger save failed", "error", s.mapErr(err))
		return
	}
	s.logger.Debug("token saved", "fingerprint", token.Fingerprint(tok))
}

// Read returns the token, or false if none is stored or the read failed.
func (s *BadgerStore) Read() (string, bool) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(TokenKey))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("badger read failed", "error", s.mapErr(err))
		return "", false
	}
	return string(value), true
}

// Clear deletes the token key.
func (s *BadgerStore) Clear() {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(TokenKey))
	})
	if err != nil {
		s.logger.Error("badger clear failed", "error", s.mapErr(err))
	}
}

// Close flushes and releases the database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}
	return nil
}

func (s *BadgerStore) mapErr(err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

// badgerLog routes Badger's printf logging into slog. Badger is chatty
// at info level, so info is demoted to debug.
type badgerLog struct {
	l *slog.Logger
}

func (b badgerLog) log(level slog.Level, format string, args []any) {
	b.l.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)), "source", "badger")
}

func (b badgerLog) Errorf(format string, args ...any)   { b.log(slog.LevelError, format, args) }
func (b badgerLog) Warningf(format string, args ...any) { b.log(slog.LevelWarn, format, args) }
func (b badgerLog) Infof(format string, args ...any)    { b.log(slog.LevelDebug, format, args) }
func (b badgerLog) Debugf(format string, args ...any)   { b.log(slog.LevelDebug, format, args) }
