// Package config loads the attendance service configuration from YAML with
// environment variable expansion.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kintaihq/kintai/pkg/auth"
)

// Config holds the complete service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Time     TimeConfig     `yaml:"time"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address string    `yaml:"address"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig configures TLS.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// DatabaseConfig configures the PostgreSQL connection. An empty DSN runs
// the service on in-memory stores, which is only useful for local
// development and tests.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// AuthConfig configures request authentication. Token issuance lives in
// the identity service; only verification material is configured here.
type AuthConfig struct {
	JWT     JWTConfig     `yaml:"jwt"`
	APIKeys []auth.APIKey `yaml:"api_keys"`
}

// JWTConfig holds bearer-token verification settings.
type JWTConfig struct {
	SigningKey string `yaml:"signing_key"`
	Issuer     string `yaml:"issuer"`
}

// TimeConfig configures attendance time handling.
type TimeConfig struct {
	// UTCOffsetMinutes is the fixed local-time offset that defines the
	// attendance calendar day. Default 540 (UTC+9, JST).
	UTCOffsetMinutes int `yaml:"utc_offset_minutes"`
}

// Offset returns the configured local-time offset as a duration.
func (t TimeConfig) Offset() time.Duration {
	return time.Duration(t.UTCOffsetMinutes) * time.Minute
}

// Load reads configuration from a file, expands ${VAR} references from the
// environment, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is from CLI args, controlled by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from raw YAML.
func Parse(data []byte) (*Config, error) {
	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Time.UTCOffsetMinutes == 0 {
		cfg.Time.UTCOffsetMinutes = 540
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.TLS.Enabled && (c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "") {
		return fmt.Errorf("tls enabled but cert_file or key_file missing")
	}
	if c.Time.UTCOffsetMinutes < -14*60 || c.Time.UTCOffsetMinutes > 14*60 {
		return fmt.Errorf("utc_offset_minutes %d outside valid range", c.Time.UTCOffsetMinutes)
	}
	for i, k := range c.Auth.APIKeys {
		if k.KeyHash == "" || k.UserID == "" {
			return fmt.Errorf("api_keys[%d]: key_hash and user_id are required", i)
		}
	}
	return nil
}
