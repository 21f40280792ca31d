// Package config loads the service configuration: defaults, then an optional
// YAML file, then environment overrides. Command-line flags are applied by
// the caller on top of the result.
package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	// Application names the alert and error headers (X-{application}-alert).
	Application string         `yaml:"application"`
	Server      ServerConfig   `yaml:"server"`
	Database    DatabaseConfig `yaml:"database"`
	Log         LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`

	RateLimit      float64 `yaml:"rateLimit"` // requests per second
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`

	MaxOpenConns       int           `yaml:"maxOpenConns"`
	SlowQueryThreshold time.Duration `yaml:"slowQueryThreshold"`
	QueryLogging       bool          `yaml:"queryLogging"`

	// CacheSize bounds the per-entity identity cache; 0 disables it.
	CacheSize int `yaml:"cacheSize"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Application: "recipesApp",
		Server: ServerConfig{
			Port:            8080,
			RateLimit:       100,
			RateLimitBurst:  200,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:             "sqlite3",
			DSN:                "file:recipes.db",
			SlowQueryThreshold: 200 * time.Millisecond,
			CacheSize:          1000,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("APPLICATION_NAME"); v != "" {
		c.Application = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q", v)
		}
		c.Server.Port = port
	}
	if v := getenv("SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("config: invalid SHUTDOWN_TIMEOUT_SECONDS %q", v)
		}
		c.Server.ShutdownTimeout = time.Duration(seconds) * time.Second
	}
	if v := getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Application == "":
		return fmt.Errorf("config: application name is required")
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	case c.Server.RateLimit <= 0 || c.Server.RateLimitBurst <= 0:
		return fmt.Errorf("config: rate limit and burst must be positive")
	case c.Database.Driver == "":
		return fmt.Errorf("config: database driver is required")
	case c.Database.DSN == "":
		return fmt.Errorf("config: database dsn is required")
	}
	return nil
}

// InMemory reports whether the DSN names an SQLite in-memory database.
func (d DatabaseConfig) InMemory() bool {
	return strings.Contains(d.DSN, ":memory:") || strings.Contains(d.DSN, "mode=memory")
}

// Open opens the configured database. The driver must be registered by the
// caller. In-memory SQLite databases are pinned to a single connection since
// each connection would otherwise see its own empty database.
func (d DatabaseConfig) Open() (*sql.DB, error) {
	db, err := sql.Open(d.Driver, d.DSN)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s database: %w", d.Driver, err)
	}
	switch {
	case d.InMemory():
		db.SetMaxOpenConns(1)
	case d.MaxOpenConns > 0:
		db.SetMaxOpenConns(d.MaxOpenConns)
	}
	return db, nil
}
