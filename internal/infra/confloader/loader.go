package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix.
const DefaultEnvPrefix = "ROSTER_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	defaults  map[string]any
	overrides map[string]any
	keys      map[string]string // ENV_FORM -> dotted.key
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile sets the YAML file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// WithDefaults sets the lowest priority values, keyed by dotted path.
func WithDefaults(values map[string]any) Option {
	return func(l *Loader) { l.defaults = values }
}

// WithOverrides sets the highest priority values, keyed by dotted path.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) { l.overrides = values }
}

// WithKnownKeys declares the dotted keys the environment may set. Keys
// that contain underscores (client.api_url) can only be reached from the
// environment when declared here; undeclared variables map every
// underscore to a dot.
func WithKnownKeys(keys ...string) Option {
	return func(l *Loader) {
		for _, k := range keys {
			l.keys[envForm(k)] = k
		}
	}
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		keys:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load applies every source and unmarshals the result into target using
// koanf struct tags.
func (l *Loader) Load(target any) error {
	if len(l.defaults) > 0 {
		if err := l.LoadMap(l.defaults); err != nil {
			return fmt.Errorf("load defaults: %w", err)
		}
	}
	if err := l.LoadFile(l.filePath); err != nil {
		return fmt.Errorf("load config file: %w", err)
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if len(l.overrides) > 0 {
		if err := l.LoadMap(l.overrides); err != nil {
			return fmt.Errorf("load overrides: %w", err)
		}
	}
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile merges a YAML file. An empty path or a missing file is skipped.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadEnv merges prefixed environment variables.
// ROSTER_CLIENT_API_URL sets client.api_url when that key is known.
func (l *Loader) LoadEnv() error {
	transform := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		if k, ok := l.keys[s]; ok {
			return k
		}
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadMap merges values keyed by dotted path.
func (l *Loader) LoadMap(values map[string]any) error {
	for k, v := range values {
		if err := l.k.Set(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

// Koanf exposes the merged tree.
func (l *Loader) Koanf() *koanf.Koanf {
	return l.k
}

// Keys returns every loaded key.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}

func envForm(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
