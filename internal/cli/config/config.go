package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/roster-go/internal/infra/confloader"
	"github.com/yndnr/roster-go/internal/storage"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "ROSTER_CONFIG"

// CLIConfig is the configuration for roster-cli.
type CLIConfig struct {
	Client    ClientConfig    `koanf:"client"`
	Storage   StorageConfig   `koanf:"storage"`
	Log       LogConfig       `koanf:"log"`
	Output    OutputConfig    `koanf:"output"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ClientConfig configures the API client.
type ClientConfig struct {
	APIURL         string        `koanf:"api_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	ViewTimeout    time.Duration `koanf:"view_timeout"`
	RateLimit      float64       `koanf:"rate_limit"` // requests per second, 0 disables
	CAFile         string        `koanf:"ca_file"`
}

// StorageConfig selects the token store.
type StorageConfig struct {
	Backend string `koanf:"backend"`
	Dir     string `koanf:"dir"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Format string `koanf:"format"` // table, json, yaml
}

// TelemetryConfig configures tracing and the metrics dump.
type TelemetryConfig struct {
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	MetricsFile  string `koanf:"metrics_file"`
}

// DefaultDir returns the per-user roster directory.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "roster")
}

// DefaultPath returns the config file path, honoring ROSTER_CONFIG.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *CLIConfig {
	cfg := &CLIConfig{}
	for _, s := range settings {
		// Defaults are valid by construction.
		_ = s.set(cfg, s.def)
	}
	cfg.Storage.Dir = DefaultDir()
	return cfg
}

// Load reads path (missing is fine) and applies the environment and
// overrides, keyed by dotted setting name.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultPath()
	}
	defaults := make(map[string]any, len(settings))
	for _, s := range settings {
		defaults[s.key] = s.def
	}
	defaults["storage.dir"] = DefaultDir()

	l := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithKnownKeys(Keys()...),
		confloader.WithDefaults(defaults),
		confloader.WithOverrides(overrides),
	)
	cfg := &CLIConfig{}
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated and numeric settings.
func (c *CLIConfig) Validate() error {
	for _, s := range settings {
		if err := s.set(&CLIConfig{}, s.get(c)); err != nil {
			return err
		}
	}
	return nil
}

// StoreConfig returns the token store configuration.
func (c *CLIConfig) StoreConfig() storage.Config {
	return storage.Config{Backend: c.Storage.Backend, Dir: c.Storage.Dir}
}
