package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/salon-booking/internal/config"
)

func TestNewRedisClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(config.Config{
		RedisAddr:     mr.Addr(),
		RedisPoolSize: 5,
		RedisTimeout:  time.Second,
	})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	_, err := NewRedisClient(config.Config{
		RedisAddr:     "127.0.0.1:1",
		RedisPoolSize: 5,
		RedisTimeout:  time.Second,
	})
	assert.Error(t, err)
}
