package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, config Config) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheWithClient(client, config)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache(context.Background(), RedisConfig{Addr: mr.Addr(), Config: DefaultConfig()})
	require.NoError(t, err)
	assert.NoError(t, cache.Close())
}

func TestNewRedisCache_ConnectionError(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestRedis(t, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("plan"), time.Minute))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("plan"), got)

	// keys are stored under the prefix
	assert.True(t, mr.Exists("aql:plan:k"))
}

func TestRedisCache_TTL(t *testing.T) {
	cache, mr := setupTestRedis(t, Config{DefaultTTL: time.Minute, Prefix: "t:"})
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "default", []byte("a"), 0))
	require.NoError(t, cache.Set(ctx, "forever", []byte("b"), -1))
	assert.Equal(t, time.Minute, mr.TTL("t:default"))
	assert.Equal(t, time.Duration(0), mr.TTL("t:forever"))

	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "default")
	assert.True(t, IsCacheMiss(err))
	ok, err := cache.Exists(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCache_ClearOnlyPrefix(t *testing.T) {
	cache, mr := setupTestRedis(t, Config{Prefix: "aql:"})
	ctx := context.Background()

	require.NoError(t, mr.Set("other:key", "keep"))
	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, mr.Exists("aql:a"))
	assert.False(t, mr.Exists("aql:b"))
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisCache_Delete(t *testing.T) {
	cache, _ := setupTestRedis(t, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, cache.Delete(ctx, "k"))

	ok, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), DefaultConfig())
	defer cache.Close()
	mr.Close()

	_, err = cache.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, IsCacheMiss(err))
}
