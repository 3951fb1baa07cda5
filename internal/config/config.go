// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"blogcms/internal/models"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// StorageDriver selects the repositories: "postgres" or "memory".
	StorageDriver string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Tree settings
	CategoryTreeDepth int
	CommentTreeDepth  int
	MaxTreeWalk       int
	TreeCacheTTL      time.Duration // zero disables the tree cache

	// CommentDefaultStatus is the moderation state new comments start in.
	CommentDefaultStatus models.CommentStatus

	// Comment submissions allowed per client IP within CommentRateWindow.
	// Zero disables the limit.
	CommentRateLimit  int
	CommentRateWindow time.Duration

	// Comment screening against a hosted moderation API. An empty key
	// disables it.
	ScreeningProvider string // "openai" or "mistral"
	ScreeningAPIKey   string
	ScreeningBaseURL  string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first if present; real environment variables win over it.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StorageDriver: envOrDefault("STORAGE_DRIVER", "postgres"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "blogcms"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "blogcms"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		CommentDefaultStatus: models.CommentStatus(envOrDefault("COMMENT_DEFAULT_STATUS", string(models.CommentStatusPending))),

		ScreeningProvider: envOrDefault("SCREENING_PROVIDER", "openai"),
		ScreeningAPIKey:   os.Getenv("SCREENING_API_KEY"),
		ScreeningBaseURL:  os.Getenv("SCREENING_BASE_URL"),
	}

	var err error
	if cfg.CategoryTreeDepth, err = intOrDefault("CATEGORY_TREE_DEPTH", 2); err != nil {
		return nil, err
	}
	if cfg.CommentTreeDepth, err = intOrDefault("COMMENT_TREE_DEPTH", 2); err != nil {
		return nil, err
	}
	if cfg.MaxTreeWalk, err = intOrDefault("MAX_TREE_WALK", 64); err != nil {
		return nil, err
	}
	if cfg.TreeCacheTTL, err = durationOrDefault("TREE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CommentRateLimit, err = intOrDefault("COMMENT_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.CommentRateWindow, err = durationOrDefault("COMMENT_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	if cfg.StorageDriver != "postgres" && cfg.StorageDriver != "memory" {
		return nil, fmt.Errorf("STORAGE_DRIVER must be postgres or memory, got %q", cfg.StorageDriver)
	}
	if !cfg.CommentDefaultStatus.Valid() {
		return nil, fmt.Errorf("COMMENT_DEFAULT_STATUS %q is not a comment status", cfg.CommentDefaultStatus)
	}
	if cfg.ScreeningProvider != "openai" && cfg.ScreeningProvider != "mistral" {
		return nil, fmt.Errorf("SCREENING_PROVIDER must be openai or mistral, got %q", cfg.ScreeningProvider)
	}
	if cfg.MaxTreeWalk < 1 {
		return nil, fmt.Errorf("MAX_TREE_WALK must be at least 1")
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// intOrDefault reads a non-negative integer variable.
func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

// durationOrDefault reads a Go duration such as "90s" or "5m".
func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
