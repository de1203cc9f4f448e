package config_test

import (
	"testing"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "http://localhost:4000", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "4000", cfg.ServerPort)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EZSPLIT_API_URL", "https://api.ezsplit.example")
	t.Setenv("EZSPLIT_TIMEOUT", "30s")
	t.Setenv("EZSPLIT_CACHE_SIZE", "16")
	t.Setenv("LOG_FORMAT", "json")

	cfg := config.Load()

	assert.Equal(t, "https://api.ezsplit.example", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, "json", cfg.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("EZSPLIT_TIMEOUT", "not-a-duration")
	t.Setenv("EZSPLIT_CACHE_SIZE", "many")

	cfg := config.Load()

	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 256, cfg.CacheSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad url", func(c *config.Config) { c.APIBaseURL = "::not a url" }},
		{"bad port", func(c *config.Config) { c.ServerPort = "99999" }},
		{"non-numeric port", func(c *config.Config) { c.ServerPort = "http" }},
		{"zero timeout", func(c *config.Config) { c.RequestTimeout = 0 }},
		{"zero cache", func(c *config.Config) { c.CacheSize = 0 }},
		{"bad log format", func(c *config.Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Load()
			tt.mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}
