// Package config loads runtime settings from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment overrides, e.g.
// STUDYCLOUD_SERVER_PORT=8080 -> server.port.
const envPrefix = "STUDYCLOUD_"

// defaults is the base configuration every load starts from.
const defaults = `
server:
  host: 0.0.0.0
  port: 8080
database:
  path: studycloud.db
auth:
  token_ttl: 24h
  bcrypt_cost: 10
sweep:
  interval: 5m
smtp:
  port: 587
log:
  level: info
  format: json
`

// Config keeps runtime settings for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	SMTP     SMTPConfig     `koanf:"smtp"`
	Telegram TelegramConfig `koanf:"telegram"`
	Sweep    SweepConfig    `koanf:"sweep"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// Addr is the host:port pair the server binds to.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// AuthConfig holds token signing and password hashing settings.
type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`
	// AdminEmail, when set, promotes the matching registration to admin.
	AdminEmail string `koanf:"admin_email"`
}

// SMTPConfig configures the outbound email channel. An empty host
// disables it.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// Enabled reports whether email reminders should be sent at all.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// TelegramConfig configures the optional Telegram reminder channel.
type TelegramConfig struct {
	Token string `koanf:"token"`
}

// Enabled reports whether the Telegram channel should be started.
func (c TelegramConfig) Enabled() bool {
	return c.Token != ""
}

// SweepConfig controls the due-date reminder sweep.
type SweepConfig struct {
	Interval time.Duration `koanf:"interval"`
}

// LogConfig selects logger verbosity and encoding.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
}

// Load reads configuration in increasing precedence: built-in defaults,
// the YAML file at path (skipped when absent), then STUDYCLOUD_* env vars.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaults)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Optional file; fall through to env overrides.
		default:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	// STUDYCLOUD_SERVER_PORT -> server.port, STUDYCLOUD_AUTH_JWT_SECRET ->
	// auth.jwt_secret: the first underscore separates section from field.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the service cannot safely run with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep.interval must be positive")
	}
	if c.SMTP.Enabled() && c.SMTP.From == "" {
		return fmt.Errorf("smtp.from is required when smtp.host is set")
	}
	return nil
}
