// Copyright (c) 2026 Artistphere. All rights reserved.
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

Once loaded, configuration is read-only and passed to components through
their constructors. No global variables hold config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Artistphere API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"5000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// MaxBodyBytes caps every request body, JSON and multipart alike.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"10485760"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// StorageProbeInterval is how often the database health monitor pings.
	StorageProbeInterval time.Duration `env:"STORAGE_PROBE_INTERVAL" envDefault:"5s"`

	// Key-Value Cache (Redis). Empty disables the artist read cache.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Cross-Origin Resource Sharing allow-list. Exact origin match.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://artistphere.onrender.com,http://localhost:3000"`

	// Local content directory for multipart uploads
	UploadDir       string `env:"UPLOAD_DIR"        envDefault:"./uploads"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads"`

	// External image host (Cloudinary)
	ImageHost ImageHostConfig `envPrefix:"IMAGE_HOST_"`

	// ImageUploadTimeout bounds the remote upload; expiry is an UPLOAD_FAILED.
	ImageUploadTimeout time.Duration `env:"IMAGE_UPLOAD_TIMEOUT" envDefault:"15s"`

	// DefaultPageSize applies to list requests without a limit.
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
}

// ImageHostConfig holds the credentials of the remote image host.
type ImageHostConfig struct {
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"API_KEY"`
	APISecret string `env:"API_SECRET"`
	APIURL    string `env:"API_URL"    envDefault:"https://api.cloudinary.com"`
	Folder    string `env:"FOLDER"     envDefault:"artists"`
}

// Enabled reports whether inline images can be forwarded to the host.
func (c ImageHostConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// check rejects values the env tags cannot express.
func (c *Config) check() error {
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be positive")
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("config: DEFAULT_PAGE_SIZE must be positive")
	}
	if c.ImageUploadTimeout <= 0 {
		return fmt.Errorf("config: IMAGE_UPLOAD_TIMEOUT must be positive")
	}
	c.UploadURLPrefix = strings.TrimSuffix(c.UploadURLPrefix, "/")
	if !strings.HasPrefix(c.UploadURLPrefix, "/") {
		return fmt.Errorf("config: UPLOAD_URL_PREFIX must be an absolute path other than '/'")
	}

	origins := c.AllowedOrigins[:0]
	for _, origin := range c.AllowedOrigins {
		// Browsers never send a trailing slash in Origin.
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	c.AllowedOrigins = origins

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
