// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles agent-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. A local .env file, when present, is loaded first via 'joho/godotenv'
so development setups do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through
their constructors.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the client agent.
type Config struct {

	// Control plane settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8090"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// AllowedOrigins lists the web origins allowed to call the control plane outside development.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Marketplace API
	APIBaseURL  string        `env:"API_BASE_URL,required"`
	PresenceURL string        `env:"PRESENCE_WS_URL"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`

	// Browser-state storage (Redis when configured, in-memory otherwise)
	RedisURL    string `env:"REDIS_URL"`
	KVNamespace string `env:"KV_NAMESPACE" envDefault:"deczhen"`

	// Session bootstrap
	BootstrapPath     string   `env:"BOOTSTRAP_PATH" envDefault:"/"`
	ProtectedPrefixes []string `env:"PROTECTED_PATH_PREFIXES" envSeparator:"," envDefault:"/client,/provider,/profile,/chat,/contracts,/offers,/reviews,/workspace"`

	// Optional unattended sign-in used when bootstrap settles unauthenticated
	AuthEmail    string `env:"AUTH_EMAIL"`
	AuthPassword string `env:"AUTH_PASSWORD"`

	// Presence heartbeat
	PresencePingInterval     time.Duration `env:"PRESENCE_PING_INTERVAL"     envDefault:"60s"`
	PresenceActivityThrottle time.Duration `env:"PRESENCE_ACTIVITY_THROTTLE" envDefault:"15s"`
	PresenceReconnectDelay   time.Duration `env:"PRESENCE_RECONNECT_DELAY"   envDefault:"5s"`
	PresenceMaxReconnects    int           `env:"PRESENCE_MAX_RECONNECTS"    envDefault:"0"`

	// View-model formatting
	Locale   string `env:"LOCALE"   envDefault:"en"`
	Currency string `env:"CURRENCY" envDefault:"EUR"`

	// Request list defaults
	DefaultSort  string `env:"REQUESTS_DEFAULT_SORT"  envDefault:"date_desc"`
	DefaultLimit int    `env:"REQUESTS_DEFAULT_LIMIT" envDefault:"20"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load(envFiles ...string) (*Config, error) {

	// A missing .env is normal outside local development.
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env file: %w", err)
	}

	cfg := &Config{}

	// Fails if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("config: API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if c.PresencePingInterval <= 0 || c.PresenceActivityThrottle <= 0 || c.PresenceReconnectDelay <= 0 {
		return fmt.Errorf("config: presence intervals must be positive")
	}
	if c.PresenceMaxReconnects < 0 {
		return fmt.Errorf("config: PRESENCE_MAX_RECONNECTS must not be negative")
	}
	return nil
}

// IsDevelopment reports whether the agent is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the agent is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the web origins allowed by CORS outside development.
func (c *Config) Origins() []string {
	return c.AllowedOrigins
}

// HasAutoLogin reports whether unattended sign-in credentials are configured.
func (c *Config) HasAutoLogin() bool {
	return c.AuthEmail != "" && c.AuthPassword != ""
}
