package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetAndGet(t *testing.T) {
	cache := NewCache(newTestRedisClient(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "report", `{"status":"healthy"}`, time.Minute))

	val, err := cache.Get(ctx, "report")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"healthy"}`, val)
}

func TestCacheGetMissing(t *testing.T) {
	cache := NewCache(newTestRedisClient(t))

	_, err := cache.Get(context.Background(), "absent")
	assert.Error(t, err)
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache(newTestRedisClient(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "report", "stale", time.Minute))
	require.NoError(t, cache.Delete(ctx, "report"))

	_, err := cache.Get(ctx, "report")
	assert.Error(t, err, "deleted key should not resolve")
}
