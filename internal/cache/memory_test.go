package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	value := []byte("plan")
	require.NoError(t, cache.Set(ctx, "k", value, time.Minute))

	// the cache keeps its own copy
	value[0] = 'X'
	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("plan"), got)
}

func TestMemoryCache_Miss(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	_, err := cache.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsCacheMiss(err))
	assert.Equal(t, "cache miss: missing", err.Error())
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCacheWithConfig(Config{DefaultTTL: 10 * time.Millisecond}, 0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", []byte("a"), 0))
	require.NoError(t, cache.Set(ctx, "forever", []byte("b"), -1))

	time.Sleep(30 * time.Millisecond)

	_, err := cache.Get(ctx, "short")
	assert.True(t, IsCacheMiss(err))

	ok, err := cache.Exists(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCache_Sweep(t *testing.T) {
	cache := NewMemoryCacheWithConfig(Config{}, 5*time.Millisecond)
	defer cache.Close()

	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), time.Millisecond))
	assert.Eventually(t, func() bool {
		_, present := cache.data.Load("k")
		return !present
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	cache := NewMemoryCacheWithConfig(Config{Prefix: "p:"}, 0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, cache.Delete(ctx, "a"))
	ok, err := cache.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Clear(ctx))
	ok, err = cache.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_CanceledContext(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, cache.Set(ctx, "k", nil, 0), context.Canceled)
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	cache := NewMemoryCache()
	assert.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}
