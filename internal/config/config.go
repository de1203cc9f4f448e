// Package config loads the configuration for the client and the development
// server from the environment, with optional .env support.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for the ezsplit binaries.
type Config struct {
	// Client
	APIBaseURL     string
	RequestTimeout time.Duration
	CacheSize      int
	CacheTTL       time.Duration

	// SessionFile is where the CLI persists its session cookie between
	// invocations. Empty means a default under the user config directory.
	SessionFile string

	// Logging
	LogFormat string // "human" or "json"
	LogLevel  string

	// Development server
	ServerPort       string
	ServerDBPath     string
	CORSAllowOrigins string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() *Config {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:     getEnv("EZSPLIT_API_URL", "http://localhost:4000"),
		RequestTimeout: getEnvDuration("EZSPLIT_TIMEOUT", 10*time.Second),
		CacheSize:      getEnvInt("EZSPLIT_CACHE_SIZE", 256),
		CacheTTL:       getEnvDuration("EZSPLIT_CACHE_TTL", 5*time.Minute),
		SessionFile:    getEnv("EZSPLIT_SESSION_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "human"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		ServerPort:       getEnv("PORT", "4000"),
		ServerDBPath:     getEnv("EZSPLIT_DB_PATH", "data/ezsplit.db"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", ""),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("invalid EZSPLIT_API_URL %q: %w", c.APIBaseURL, err)
	}

	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", c.ServerPort)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid EZSPLIT_TIMEOUT: must be positive")
	}

	if c.CacheSize < 1 {
		return fmt.Errorf("invalid EZSPLIT_CACHE_SIZE: must be at least 1")
	}

	if c.LogFormat != "human" && c.LogFormat != "json" {
		return fmt.Errorf("invalid LOG_FORMAT %q: must be \"human\" or \"json\"", c.LogFormat)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return d
}
