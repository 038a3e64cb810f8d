package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL == "" {
		t.Error("expected default api base url")
	}
	if cfg.SessionStore != "file" {
		t.Errorf("expected file store default, got %q", cfg.SessionStore)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected 24h session ttl, got %v", cfg.SessionTTL)
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Errorf("expected 10s upstream timeout, got %v", cfg.UpstreamTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.internal:9000")
	t.Setenv("IDENTITY_SECRET_KEY", "sk_test")
	t.Setenv("ORGANIZATION_ID", "org_1")
	t.Setenv("SESSION_SECRET", "cookie-secret")
	t.Setenv("LISTEN", ":9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "http://api.internal:9000" {
		t.Errorf("api base url = %q", cfg.APIBaseURL)
	}
	if cfg.IdentitySecret != "sk_test" || cfg.OrganizationID != "org_1" || cfg.SessionSecret != "cookie-secret" {
		t.Error("secrets not read from environment")
	}
	if cfg.Listen != ":9999" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: \":7000\"\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LISTEN", ":7001")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":7001" {
		t.Errorf("environment must win, got %q", cfg.Listen)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("file value not applied, got %q", cfg.LogLevel)
	}
}

func TestValidateMissingSecrets(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, name := range []string{"IDENTITY_SECRET_KEY", "ORGANIZATION_ID", "SESSION_SECRET"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected %s in error, got %v", name, err)
		}
	}
}

func TestValuesRedactsSecrets(t *testing.T) {
	cfg := &Config{IdentitySecret: "sk_live_abc", SessionSecret: "cookie-secret"}
	values := cfg.Values()
	for _, key := range []string{"identity_secret_key", "session_secret"} {
		if strings.Contains(values[key], "secret") || strings.Contains(values[key], "sk_live") {
			t.Errorf("%s leaked: %q", key, values[key])
		}
	}
	if values["identity_secret_key"] != "(set)" {
		t.Errorf("expected redaction marker, got %q", values["identity_secret_key"])
	}
}
