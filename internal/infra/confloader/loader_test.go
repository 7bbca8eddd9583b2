package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Client struct {
		APIURL      string        `koanf:"api_url"`
		ViewTimeout time.Duration `koanf:"view_timeout"`
		RateLimit   float64       `koanf:"rate_limit"`
	} `koanf:"client"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoader_Precedence(t *testing.T) {
	path := writeFile(t, `
client:
  api_url: http://file:8080/api
  view_timeout: 5s
log:
  level: warn
`)
	t.Setenv("ROSTER_LOG_LEVEL", "debug")
	t.Setenv("ROSTER_CLIENT_RATE_LIMIT", "2.5")

	l := NewLoader(
		WithConfigFile(path),
		WithKnownKeys("client.api_url", "client.view_timeout", "client.rate_limit", "log.level"),
		WithDefaults(map[string]any{
			"client.api_url":      "http://localhost:8080/api",
			"client.view_timeout": "10s",
			"log.level":           "info",
		}),
		WithOverrides(map[string]any{"client.api_url": "http://flag:9090/api"}),
	)

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Client.APIURL != "http://flag:9090/api" {
		t.Errorf("api_url = %q, want the override", cfg.Client.APIURL)
	}
	if cfg.Client.ViewTimeout != 5*time.Second {
		t.Errorf("view_timeout = %v, want 5s from the file", cfg.Client.ViewTimeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug from env", cfg.Log.Level)
	}
	if cfg.Client.RateLimit != 2.5 {
		t.Errorf("rate_limit = %v, want 2.5 from env", cfg.Client.RateLimit)
	}
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	l := NewLoader(
		WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")),
		WithDefaults(map[string]any{"client.view_timeout": "10s"}),
	)
	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Client.ViewTimeout != 10*time.Second {
		t.Errorf("view_timeout = %v, want default", cfg.Client.ViewTimeout)
	}
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeFile(t, "client: [unterminated")
	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestLoader_UnknownEnvKeysSplitOnUnderscore(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "error")
	l := NewLoader(WithEnvPrefix("APP_"))
	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
}

func TestEnvForm(t *testing.T) {
	if got := envForm("client.api_url"); got != "CLIENT_API_URL" {
		t.Errorf("envForm() = %q", got)
	}
}
