// Package cache stores compiled plans so repeated queries skip binding and compilation.
// Backends hold opaque bytes; PlanCache encodes plans as JSON and decodes them against
// the graph they were compiled for.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache
	Clear(ctx context.Context) error

	// Exists checks if a key exists in the cache
	Exists(ctx context.Context, key string) (bool, error)

	Close() error
}

// Config holds common configuration for cache backends
type Config struct {
	// DefaultTTL is used when Set is given a zero TTL. A negative TTL never expires.
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys
	Prefix string
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() Config {
	return Config{
		DefaultTTL: 10 * time.Minute,
		Prefix:     "aql:plan:",
	}
}

// ErrCacheMiss is returned when a key is not found in the cache
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	var miss ErrCacheMiss
	return errors.As(err, &miss)
}
