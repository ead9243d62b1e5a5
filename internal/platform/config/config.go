// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (backend client, DB, Redis) via constructors.
  - Local overrides: cmd/api loads .env.local with godotenv before [Load] runs.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the bookdesk gateway.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Book backend
	BackendURL       string        `env:"BACKEND_URL,required,notEmpty"`
	BackendTimeout   time.Duration `env:"BACKEND_TIMEOUT"    envDefault:"10s"`
	BackendRPS       float64       `env:"BACKEND_RPS"        envDefault:"20"`
	BackendJWTSecret string        `env:"BACKEND_JWT_SECRET"`

	// Relational Database (PostgreSQL) for the audit trail
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis) for gateway sessions
	RedisURL   string        `env:"REDIS_URL,required,notEmpty"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// Search views
	ViewTTL          time.Duration `env:"VIEW_TTL"           envDefault:"30m"`
	DefaultPageLimit int           `env:"DEFAULT_PAGE_LIMIT" envDefault:"16"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("config: BACKEND_URL must name a host")
	}
	if cfg.BackendRPS <= 0 {
		return nil, fmt.Errorf("config: BACKEND_RPS must be positive, got %v", cfg.BackendRPS)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins splits EXTRA_ORIGINS into a trimmed list.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
