package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultHistorySize caps persisted entries.
const DefaultHistorySize = 1000

// History keeps entered lines, oldest first.
type History struct {
	mu      sync.Mutex
	entries []string
	maxSize int
	file    string
}

// NewHistory creates a history persisted at file. An empty file keeps
// history in memory only.
func NewHistory(file string, maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{maxSize: maxSize, file: file}
}

// Add records a line. Consecutive duplicates are stored once, and lines
// that carry a password are never stored.
func (h *History) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || mentionsPassword(line) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Entries returns a copy, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Load reads the history file. A missing file is not an error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}
	f, err := os.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		h.Add(sc.Text())
	}
	return sc.Err()
}

// Save writes the history file with owner-only permissions.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.file), 0o700); err != nil {
		return err
	}
	entries := h.Entries()
	data := strings.Join(entries, "\n")
	if len(entries) > 0 {
		data += "\n"
	}
	return os.WriteFile(h.file, []byte(data), 0o600)
}

func mentionsPassword(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "--password") || strings.Contains(l, " -p ")
}
