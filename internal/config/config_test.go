package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/gain/internal/analytics"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "gain"
  user: "gain"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields
// populated and analytics defaults applied.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "gain" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "gain")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
	if cfg.Analytics.RecentWindow != analytics.DefaultRecentWindow {
		t.Errorf("analytics.recent_window = %d, want default %d", cfg.Analytics.RecentWindow, analytics.DefaultRecentWindow)
	}
	if cfg.Analytics.HighFatigueThreshold != analytics.DefaultHighFatigueThreshold {
		t.Errorf("analytics.high_fatigue_threshold = %v, want default %v", cfg.Analytics.HighFatigueThreshold, analytics.DefaultHighFatigueThreshold)
	}
	if cfg.Analytics.DeloadThreshold != analytics.DefaultDeloadThreshold {
		t.Errorf("analytics.deload_threshold = %v, want default %v", cfg.Analytics.DeloadThreshold, analytics.DefaultDeloadThreshold)
	}
}

// TestEnvOverride verifies that GAIN_ env vars take precedence over YAML
// values, so production deployments can override config via environment.
func TestEnvOverride(t *testing.T) {
	t.Setenv("GAIN_DB_HOST", "override-host")
	t.Setenv("GAIN_DB_PORT", "9999")
	t.Setenv("GAIN_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "override-host" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "override-host")
	}
	if cfg.Database.Port != 9999 {
		t.Errorf("database.port = %d, want 9999", cfg.Database.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
	// Unchanged fields keep YAML values.
	if cfg.Database.Name != "gain" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "gain")
	}
}

// TestAnalyticsOverride verifies explicit analytics knobs survive loading.
func TestAnalyticsOverride(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML+`
analytics:
  recent_window: 10
  high_fatigue_threshold: 60
  deload_threshold: 75
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analytics.RecentWindow != 10 {
		t.Errorf("recent_window = %d, want 10", cfg.Analytics.RecentWindow)
	}
	if cfg.Analytics.HighFatigueThreshold != 60 || cfg.Analytics.DeloadThreshold != 75 {
		t.Errorf("thresholds = %v/%v, want 60/75", cfg.Analytics.HighFatigueThreshold, cfg.Analytics.DeloadThreshold)
	}
}

// TestValidation verifies the required-field and range checks.
func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing api key",
			yaml: `
server:
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "gain"
  user: "gain"
`,
		},
		{
			name: "missing database host",
			yaml: `
server:
  port: 8080
database:
  port: 5432
  name: "gain"
  user: "gain"
auth:
  api_key: "k"
`,
		},
		{
			name: "tailscale enabled without hostname",
			yaml: validYAML + `
tailscale:
  enabled: true
`,
		},
		{
			name: "fatigue threshold out of range",
			yaml: validYAML + `
analytics:
  high_fatigue_threshold: 150
`,
		},
		{
			name: "negative recent window",
			yaml: validYAML + `
analytics:
  recent_window: -2
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tt.yaml)); err == nil {
				t.Error("Load succeeded, want validation error")
			}
		})
	}
}

// TestLoadMissingFile verifies the error path for a bad path.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load succeeded on missing file, want error")
	}
}
