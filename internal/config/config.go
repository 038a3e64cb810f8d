// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the daemon needs. Values come from the
// environment first, with an optional YAML file underneath; the
// identity-service secret, organization id, and session-signing secret
// have no defaults and must be provided.
type Config struct {
	APIBaseURL      string        `mapstructure:"api_base_url"`
	IdentityBaseURL string        `mapstructure:"identity_base_url"`
	IdentitySecret  string        `mapstructure:"identity_secret_key"`
	OrganizationID  string        `mapstructure:"organization_id"`
	SessionSecret   string        `mapstructure:"session_secret"`
	Listen          string        `mapstructure:"listen"`
	LogLevel        string        `mapstructure:"log_level"`
	DataDir         string        `mapstructure:"data_dir"`
	SessionStore    string        `mapstructure:"session_store"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	PruneSchedule   string        `mapstructure:"prune_schedule"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`
}

// Load reads configuration from the environment and, when path is
// non-empty, a YAML file. Environment variables win.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", "http://localhost:8000")
	v.SetDefault("identity_base_url", "https://api.clerk.dev")
	v.SetDefault("listen", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".sessionboard"))
	v.SetDefault("session_store", "file")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("prune_schedule", "@every 10m")
	v.SetDefault("upstream_timeout", 10*time.Second)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about, so bind
	// the secrets explicitly.
	for _, key := range []string{"identity_secret_key", "organization_id", "session_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate fails fast when a required secret is missing. Called by serve,
// not by Load, so read-only commands work without secrets.
func (c *Config) Validate() error {
	var missing []string
	if c.IdentitySecret == "" {
		missing = append(missing, "IDENTITY_SECRET_KEY")
	}
	if c.OrganizationID == "" {
		missing = append(missing, "ORGANIZATION_ID")
	}
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Values returns the effective configuration as a key/value map for the
// config command, with secrets redacted.
func (c *Config) Values() map[string]string {
	redact := func(s string) string {
		if s == "" {
			return ""
		}
		return "(set)"
	}
	return map[string]string{
		"api_base_url":        c.APIBaseURL,
		"identity_base_url":   c.IdentityBaseURL,
		"identity_secret_key": redact(c.IdentitySecret),
		"organization_id":     c.OrganizationID,
		"session_secret":      redact(c.SessionSecret),
		"listen":              c.Listen,
		"log_level":           c.LogLevel,
		"data_dir":            c.DataDir,
		"session_store":       c.SessionStore,
		"session_ttl":         c.SessionTTL.String(),
		"prune_schedule":      c.PruneSchedule,
		"upstream_timeout":    c.UpstreamTimeout.String(),
	}
}
