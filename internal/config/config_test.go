package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Default Values", func(t *testing.T) {
		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "local", cfg.AppEnv)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "sqlite://linkstat.db", cfg.DatabaseURL)
		assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
		assert.Equal(t, 4, cfg.ClickWorkers)
		assert.False(t, cfg.MaskIPs)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Environment Variables", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("APP_ENV", "production")
		t.Setenv("CACHE_TTL", "30s")
		t.Setenv("MASK_IPS", "true")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, 30*time.Second, cfg.CacheTTL)
		assert.True(t, cfg.MaskIPs)
		assert.Equal(t, 2.5, cfg.RateLimitRPS)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("Worker Floor", func(t *testing.T) {
		t.Setenv("CLICK_WORKERS", "0")
		t.Setenv("CLICK_QUEUE_SIZE", "-5")

		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, 1, cfg.ClickWorkers)
		assert.Equal(t, 1, cfg.ClickQueueSize)
	})
}
