package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache implements an in-process cache with TTL support. Expired entries are
// dropped on read and by a background sweep that runs until Close.
type MemoryCache struct {
	data   sync.Map
	config Config
	cancel context.CancelFunc
	done   chan struct{}
}

type cacheItem struct {
	value      []byte
	expiration time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// NewMemoryCache creates an in-process cache with the default configuration
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithConfig(DefaultConfig(), time.Minute)
}

// NewMemoryCacheWithConfig creates an in-process cache swept every interval
func NewMemoryCacheWithConfig(config Config, interval time.Duration) *MemoryCache {
	ctx, cancel := context.WithCancel(context.Background())
	mc := &MemoryCache{
		config: config,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go mc.cleanupExpired(ctx, interval)
	return mc
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullKey := m.config.Prefix + key
	value, ok := m.data.Load(fullKey)
	if !ok {
		return nil, ErrCacheMiss{Key: key}
	}

	item := value.(cacheItem)
	if item.expired(time.Now()) {
		m.data.Delete(fullKey)
		return nil, ErrCacheMiss{Key: key}
	}
	return item.value, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	item := cacheItem{value: stored}
	if ttl > 0 {
		item.expiration = time.Now().Add(ttl)
	}

	m.data.Store(m.config.Prefix+key, item)
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data.Delete(m.config.Prefix + key)
	return nil
}

func (m *MemoryCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data.Range(func(key, _ any) bool {
		m.data.Delete(key)
		return true
	})
	return nil
}

func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := m.Get(ctx, key); err != nil {
		if IsCacheMiss(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close stops the background sweep and waits for it to exit
func (m *MemoryCache) Close() error {
	if m.cancel != nil {
		m.cancel()
		<-m.done
		m.cancel = nil
	}
	return nil
}

func (m *MemoryCache) cleanupExpired(ctx context.Context, interval time.Duration) {
	defer close(m.done)
	if interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.data.Range(func(key, value any) bool {
				if value.(cacheItem).expired(now) {
					m.data.Delete(key)
				}
				return true
			})
		}
	}
}
