package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/gain/internal/analytics"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// AnalyticsConfig sets the default policy knobs the API applies when a caller
// does not override them per request. The engines themselves stay stateless;
// these values are passed on every call.
type AnalyticsConfig struct {
	RecentWindow         int     `yaml:"recent_window"`
	HighFatigueThreshold float64 `yaml:"high_fatigue_threshold"`
	DeloadThreshold      float64 `yaml:"deload_threshold"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides and analytics defaults. Env vars use the prefix GAIN_ and
// underscore-separated paths:
//
//	GAIN_SERVER_HOST, GAIN_SERVER_PORT,
//	GAIN_DB_HOST, GAIN_DB_PORT, GAIN_DB_NAME,
//	GAIN_DB_USER, GAIN_DB_PASSWORD, GAIN_DB_SSLMODE,
//	GAIN_AUTH_API_KEY, GAIN_TS_HOSTNAME, GAIN_TS_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	ApplyAnalyticsDefaults(&cfg.Analytics)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GAIN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GAIN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GAIN_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("GAIN_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("GAIN_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("GAIN_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("GAIN_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("GAIN_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("GAIN_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("GAIN_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("GAIN_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
}

// ApplyAnalyticsDefaults fills unset analytics knobs with the engine defaults.
func ApplyAnalyticsDefaults(a *AnalyticsConfig) {
	if a.RecentWindow == 0 {
		a.RecentWindow = analytics.DefaultRecentWindow
	}
	if a.HighFatigueThreshold == 0 {
		a.HighFatigueThreshold = analytics.DefaultHighFatigueThreshold
	}
	if a.DeloadThreshold == 0 {
		a.DeloadThreshold = analytics.DefaultDeloadThreshold
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Analytics.RecentWindow < 1 {
		return fmt.Errorf("analytics.recent_window must be positive")
	}
	if c.Analytics.HighFatigueThreshold < 0 || c.Analytics.HighFatigueThreshold > 100 {
		return fmt.Errorf("analytics.high_fatigue_threshold must be in [0, 100]")
	}
	if c.Analytics.DeloadThreshold < 0 || c.Analytics.DeloadThreshold > 100 {
		return fmt.Errorf("analytics.deload_threshold must be in [0, 100]")
	}
	return nil
}
