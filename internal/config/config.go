// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// CacheTTL controls how long a resolved envelope stays servable.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"300s"`

	TrendsBaseURL string `env:"TRENDS_BASE_URL" envDefault:"https://trends.google.com"`
	TrendsGeo     string `env:"TRENDS_GEO" envDefault:"US"`

	// RefreshInterval is how often the worker rebuilds the trending table.
	RefreshInterval time.Duration `env:"TRENDING_REFRESH_INTERVAL" envDefault:"1h"`
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	return cfg, nil
}

// Validate ensures the settings a binary cannot run without are present.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}
