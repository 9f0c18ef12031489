package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the key-value port used for short-lived session data.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. An expiration of 0 keeps it until deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	// HGetAll returns an empty map when the hash does not exist.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	HSet(ctx context.Context, key string, field string, value string) error

	Expire(ctx context.Context, key string, expiration time.Duration) error
}
