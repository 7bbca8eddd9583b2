package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/yndnr/roster-go/internal/storage"
)

// ErrUnknownKey is returned for a dotted key that names no setting.
var ErrUnknownKey = errors.New("config: unknown key")

type setting struct {
	key string
	def string
	get func(*CLIConfig) string
	set func(*CLIConfig, string) error
}

var settings = []setting{
	str("client.api_url", "http://localhost:8080/api", func(c *CLIConfig) *string { return &c.Client.APIURL }, nil),
	dur("client.request_timeout", "30s", func(c *CLIConfig) *time.Duration { return &c.Client.RequestTimeout }),
	dur("client.view_timeout", "10s", func(c *CLIConfig) *time.Duration { return &c.Client.ViewTimeout }),
	{
		key: "client.rate_limit",
		def: "0",
		get: func(c *CLIConfig) string { return strconv.FormatFloat(c.Client.RateLimit, 'f', -1, 64) },
		set: func(c *CLIConfig, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("client.rate_limit: %q is not a non-negative number", v)
			}
			c.Client.RateLimit = f
			return nil
		},
	},
	str("client.ca_file", "", func(c *CLIConfig) *string { return &c.Client.CAFile }, nil),
	str("storage.backend", storage.BackendFile, func(c *CLIConfig) *string { return &c.Storage.Backend },
		[]string{storage.BackendFile, storage.BackendBadger, storage.BackendMemory}),
	str("storage.dir", "", func(c *CLIConfig) *string { return &c.Storage.Dir }, nil),
	str("log.level", "warn", func(c *CLIConfig) *string { return &c.Log.Level },
		[]string{"debug", "info", "warn", "error"}),
	str("log.format", "text", func(c *CLIConfig) *string { return &c.Log.Format },
		[]string{"text", "json"}),
	str("output.format", "table", func(c *CLIConfig) *string { return &c.Output.Format },
		[]string{"table", "json", "yaml"}),
	str("telemetry.otlp_endpoint", "", func(c *CLIConfig) *string { return &c.Telemetry.OTLPEndpoint }, nil),
	str("telemetry.metrics_file", "", func(c *CLIConfig) *string { return &c.Telemetry.MetricsFile }, nil),
}

func str(key, def string, field func(*CLIConfig) *string, allowed []string) setting {
	return setting{
		key: key,
		def: def,
		get: func(c *CLIConfig) string { return *field(c) },
		set: func(c *CLIConfig, v string) error {
			v = strings.TrimSpace(v)
			if allowed != nil {
				v = strings.ToLower(v)
				if !slices.Contains(allowed, v) {
					return fmt.Errorf("%s: %q is not one of %s", key, v, strings.Join(allowed, ", "))
				}
			}
			*field(c) = v
			return nil
		},
	}
}

func dur(key, def string, field func(*CLIConfig) *time.Duration) setting {
	return setting{
		key: key,
		def: def,
		get: func(c *CLIConfig) string { return field(c).String() },
		set: func(c *CLIConfig, v string) error {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil || d <= 0 {
				return fmt.Errorf("%s: %q is not a positive duration", key, v)
			}
			*field(c) = d
			return nil
		},
	}
}

func lookup(key string) (setting, error) {
	for _, s := range settings {
		if s.key == key {
			return s, nil
		}
	}
	return setting{}, fmt.Errorf("%w %q", ErrUnknownKey, key)
}

// Keys lists every setting in display order.
func Keys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	return keys
}

// Get returns a setting as text.
func (c *CLIConfig) Get(key string) (string, error) {
	s, err := lookup(key)
	if err != nil {
		return "", err
	}
	return s.get(c), nil
}

// Set parses and assigns a setting.
func (c *CLIConfig) Set(key, value string) error {
	s, err := lookup(key)
	if err != nil {
		return err
	}
	return s.set(c, value)
}

// Map returns every setting grouped by section, as written to the file.
func (c *CLIConfig) Map() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, s := range settings {
		section, name, _ := strings.Cut(s.key, ".")
		if out[section] == nil {
			out[section] = make(map[string]string)
		}
		out[section][name] = s.get(c)
	}
	return out
}

// Save writes cfg to path as YAML, readable only by the owner.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Map()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
