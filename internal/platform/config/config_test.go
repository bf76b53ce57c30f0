package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HIREME_ADDR", "APP_ENV", "DATABASE_URL", "REDIS_URL", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "JWT_TTL"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":5000", cfg.Addr)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("REDIS_POOL_SIZE", "not-a-number")

	cfg := FromEnv()
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
