// Copyright (c) 2026 Yomira. All rights reserved.
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
  - DI-Friendly: Passed to core components (API client, session store) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/facilityadmin/internal/platform/validate"
)

// # Session Backends

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// apiVersionSuffix is appended to absolute base URLs that omit it.
const apiVersionSuffix = "/api/v1"

// # Configuration Schema

// Config holds all runtime configuration for the admin console.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Remote booking API. Normalized by [Load], see [NormalizeBaseURL].
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3000/api/v1"`

	// Session persistence
	SessionBackend   string `env:"SESSION_BACKEND"    envDefault:"sqlite"`
	SessionKeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"facilityadmin:session:"`
	RedisURL         string `env:"REDIS_URL"`
	SQLitePath       string `env:"SQLITE_PATH"        envDefault:"./data/session.db"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// Tracing (OTLP/gRPC). Tracing stays disabled while the endpoint is empty.
	OTelServiceName string `env:"OTEL_SERVICE_NAME"            envDefault:"facility-admin"`
	OTelEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure    bool   `env:"OTEL_EXPORTER_OTLP_INSECURE"  envDefault:"false"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	baseURL, err := NormalizeBaseURL(cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	cfg.APIBaseURL = baseURL

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// validate checks cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	validator := &validate.Validator{}
	validator.OneOf("SESSION_BACKEND", c.SessionBackend, BackendMemory, BackendRedis, BackendSQLite).
		Required("SERVER_PORT", c.ServerPort)

	switch c.SessionBackend {
	case BackendRedis:
		validator.Required("REDIS_URL", c.RedisURL)
	case BackendSQLite:
		validator.Required("SQLITE_PATH", c.SQLitePath)
	}

	return validator.Err()
}

// NormalizeBaseURL trims a trailing slash and appends "/api/v1" when the
// absolute URL does not already end with it.
//
// Relative URLs are rejected: a server process has no page origin to
// resolve them against.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")

	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("config: API_BASE_URL must be an absolute http(s) URL, got %q", raw)
	}

	if strings.HasSuffix(trimmed, apiVersionSuffix) {
		return trimmed, nil
	}
	return trimmed + apiVersionSuffix, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins splits EXTRA_ORIGINS into a trimmed list of origin suffixes.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if clean := strings.TrimSpace(origin); clean != "" {
			origins = append(origins, clean)
		}
	}
	return origins
}
