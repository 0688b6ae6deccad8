package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearOptionalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REDIS_URL", "REDIS_ADDR", "REDIS_USERNAME", "REDIS_PASSWORD",
		"REDIS_POOL_SIZE", "REDIS_TIMEOUT", "LOCK_TTL", "EARNINGS_APPROVED_ONLY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/salon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.Equal(t, 2*time.Second, cfg.RedisTimeout)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.False(t, cfg.EarningsApprovedOnly)
}

func TestLoadRedisOverrides(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/salon")
	t.Setenv("REDIS_ADDR", "10.0.0.5:6380")
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("REDIS_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:6380", cfg.RedisAddr)
	assert.Equal(t, 25, cfg.RedisPoolSize)
	assert.Equal(t, 3*time.Second, cfg.RedisTimeout)
}

func TestLoadBadPoolSizeFallsBack(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/salon")
	t.Setenv("REDIS_POOL_SIZE", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.RedisPoolSize)
}

func TestLoadRequiresPostgresDSN(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}
