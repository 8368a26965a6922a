// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package config loads Inkpost configuration from defaults, an optional YAML
// file, command-line flags and the environment, in that order of precedence.
package config

import (
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the complete runtime configuration.
type Config struct {
	HTTPAddr    string `koanf:"http_addr" env:"HTTP_ADDR"`
	Port        string `koanf:"-" env:"PORT"`
	MetricsAddr string `koanf:"metrics_addr" env:"METRICS_ADDR"`

	Log       LogConfig       `koanf:"log"`
	Database  DatabaseConfig  `koanf:"database"`
	Admin     AdminConfig     `koanf:"admin"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
	Session   SessionConfig   `koanf:"session"`
	Auth      AuthConfig      `koanf:"auth"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Format string `koanf:"format" env:"LOG_FORMAT"`
	Level  string `koanf:"level" env:"LOG_LEVEL"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL             string        `koanf:"url" env:"DATABASE_URL"`
	UnpooledURL     string        `koanf:"unpooled_url" env:"DATABASE_URL_UNPOOLED"`
	MaxConns        int32         `koanf:"max_conns" env:"DB_MAX_CONNS"`
	ConnectAttempts uint64        `koanf:"connect_attempts" env:"DB_CONNECT_ATTEMPTS"`
	ConnectBackoff  time.Duration `koanf:"connect_backoff" env:"DB_CONNECT_BACKOFF"`
}

// AdminConfig names the credential seeded at startup. Both fields or neither.
type AdminConfig struct {
	Email    string `koanf:"email" env:"ADMIN_EMAIL"`
	Password string `koanf:"password" env:"ADMIN_PASSWORD"`
}

// BootstrapConfig bounds one-time initialization.
type BootstrapConfig struct {
	Timeout time.Duration `koanf:"timeout" env:"BOOTSTRAP_TIMEOUT"`
	Lazy    bool          `koanf:"lazy" env:"BOOTSTRAP_LAZY"`
}

// SessionConfig configures the in-memory session registry and its cookie.
type SessionConfig struct {
	// TTL of zero keeps sessions until logout or restart.
	TTL           time.Duration `koanf:"ttl" env:"SESSION_TTL"`
	SweepInterval time.Duration `koanf:"sweep_interval" env:"SESSION_SWEEP_INTERVAL"`
	CookieSecure  bool          `koanf:"cookie_secure" env:"SESSION_COOKIE_SECURE"`
}

// AuthConfig tunes login handling.
type AuthConfig struct {
	HashConcurrency  int           `koanf:"hash_concurrency" env:"AUTH_HASH_CONCURRENCY"`
	LockoutThreshold int           `koanf:"lockout_threshold" env:"AUTH_LOCKOUT_THRESHOLD"`
	LockoutDuration  time.Duration `koanf:"lockout_duration" env:"AUTH_LOCKOUT_DURATION"`
}

// Default values.
const (
	DefaultHTTPAddr         = ":3000"
	DefaultLogFormat        = "json"
	DefaultLogLevel         = "info"
	DefaultBootstrapTimeout = 30 * time.Second
	DefaultConnectAttempts  = 5
	DefaultConnectBackoff   = 200 * time.Millisecond
	DefaultSweepInterval    = time.Minute
	DefaultLockoutThreshold = 7
	DefaultLockoutDuration  = 15 * time.Minute
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTPAddr: DefaultHTTPAddr,
		Log: LogConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
		Database: DatabaseConfig{
			ConnectAttempts: DefaultConnectAttempts,
			ConnectBackoff:  DefaultConnectBackoff,
		},
		Bootstrap: BootstrapConfig{
			Timeout: DefaultBootstrapTimeout,
		},
		Session: SessionConfig{
			SweepInterval: DefaultSweepInterval,
		},
		Auth: AuthConfig{
			HashConcurrency:  runtime.NumCPU(),
			LockoutThreshold: DefaultLockoutThreshold,
			LockoutDuration:  DefaultLockoutDuration,
		},
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"http-addr":         "http_addr",
	"metrics-addr":      "metrics_addr",
	"log-format":        "log.format",
	"log-level":         "log.level",
	"bootstrap-timeout": "bootstrap.timeout",
	"lazy":              "bootstrap.lazy",
	"session-ttl":       "session.ttl",
	"cookie-secure":     "session.cookie_secure",
	"db-max-conns":      "database.max_conns",
}

// Load builds a Config from defaults, the YAML file at path (if any), the
// flags in fs (if any) and finally the environment.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	cfg := Default()
	ko := koanf.New(".")

	if path != "" {
		if err := ko.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_INVALID").
				With("operation", "load config file").
				With("path", path).
				Wrap(err)
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", ko, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := ko.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_INVALID").With("operation", "load flags").Wrap(err)
		}
	}

	if err := ko.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").With("operation", "decode config").Wrap(err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds a Config from defaults and the environment only.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "parse environment").Wrap(err)
	}
	if cfg.Port != "" {
		cfg.HTTPAddr = ":" + cfg.Port
	}
	return nil
}

// DatabaseURL returns DATABASE_URL, falling back to DATABASE_URL_UNPOOLED.
func (c Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return c.Database.UnpooledURL
}

// RequireDatabase fails when no database URL is configured.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL() == "" {
		return oops.Code("CONFIG_INVALID").Errorf("missing DATABASE_URL or DATABASE_URL_UNPOOLED environment variable")
	}
	return nil
}

// Validate checks settings that do not depend on the database.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http address is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return oops.Code("CONFIG_INVALID").Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.Bootstrap.Timeout <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("bootstrap timeout must be positive, got %s", c.Bootstrap.Timeout)
	}
	if c.Session.TTL < 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session ttl must not be negative, got %s", c.Session.TTL)
	}
	if c.Database.MaxConns < 0 {
		return oops.Code("CONFIG_INVALID").Errorf("db max conns must not be negative, got %d", c.Database.MaxConns)
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, oops.Code("CONFIG_INVALID").With("level", c.Log.Level).Wrap(err)
	}
	return level, nil
}

// RegisterFlags defines the flags Load understands on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("http-addr", d.HTTPAddr, "HTTP listen address")
	fs.String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")
	fs.String("log-format", d.Log.Format, "log format (json or text)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.Duration("bootstrap-timeout", d.Bootstrap.Timeout, "upper bound on one-time initialization")
	fs.Bool("lazy", false, "defer initialization to the first request")
	fs.Duration("session-ttl", 0, "session lifetime (0 = until logout or restart)")
	fs.Bool("cookie-secure", false, "mark the session cookie Secure")
	fs.Int32("db-max-conns", 0, "maximum pool connections (0 = driver default)")
}
