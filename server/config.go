package server

import (
	"time"

	"github.com/arllen133/recipes/config"
	"golang.org/x/time/rate"
)

// Config holds server configuration
type Config struct {
	// Server identity
	Name    string
	Version string

	// Application prefixes the alert headers, as in X-{Application}-alert.
	Application string

	Address string
	Port    int

	RateLimit      rate.Limit // requests per second
	RateLimitBurst int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewConfig derives the server configuration from the service configuration.
func NewConfig(cfg *config.Config, version string) *Config {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Config{
		Name:            "recipes",
		Version:         version,
		Application:     cfg.Application,
		Address:         cfg.Server.Address,
		Port:            cfg.Server.Port,
		RateLimit:       rate.Limit(cfg.Server.RateLimit),
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}
