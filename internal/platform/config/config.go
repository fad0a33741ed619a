// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config maps environment variables onto a typed [Config].

It uses caarlos0/env struct tags for parsing, defaults and required keys.
A local .env file, when present, is loaded by the entry points with
joho/godotenv before [Load] runs.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/yamdb/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the YaMDb API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Confirmation code store (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Token signing keys
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Credential lifetimes
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL"      envDefault:"24h"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"24h"`

	// Sender address stamped on confirmation code notifications
	MailFrom string `env:"MAIL_FROM" envDefault:"yamdb@mail.net"`

	// Comma-separated list of extra CORS origins allowed outside development
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.AccessTokenTTL <= 0 || cfg.ConfirmationCodeTTL <= 0 {
		return nil, fmt.Errorf("config: token and code lifetimes must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the parsed EXTRA_ORIGINS list.
func (c *Config) AllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}
