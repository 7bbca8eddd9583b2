package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler built by New.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Output io.Writer

	AddSource bool
}

// level is shared by every handler New builds, so SetLevel reaches
// loggers already handed out to components.
var level slog.LevelVar

// New builds a redacting logger. Output defaults to stderr, which keeps
// stdout free for command results.
func New(cfg Config) *slog.Logger {
	level.Set(ParseLevel(cfg.Level))

	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:       &level,
		AddSource:   cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr { return redactSensitive(a) },
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to a slog level. Unknown names fall back
// to warn, the CLI's quiet default.
func ParseLevel(name string) slog.Level {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// SetLevel changes the level of every logger built by New.
func SetLevel(name string) {
	level.Set(ParseLevel(name))
}

// GetLevel returns the current level name in lower case.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

// Install makes l the process default so code logging through
// slog.Default shares its handler and redaction.
func Install(l *slog.Logger) {
	slog.SetDefault(l)
}

// OrDefault returns l, or slog.Default() when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
