// Package cache stores pipeline results between runs.
//
// A [Cache] maps string keys to opaque byte values with an optional TTL.
// Three backends are provided:
//   - [NullCache]: stores nothing, used when caching is disabled
//   - [FileCache]: one JSON file per entry under a local directory
//   - [RedisCache]: a shared Redis instance
//
// Keys are produced by a [Keyer] from content hashes and the options that
// influence a result, so a changed fixture or option never hits a stale
// entry.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names a cache implementation.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
)

// Open creates the cache for backend. location is the directory for the
// file backend (empty selects [DefaultDir]) and the address for redis.
func Open(ctx context.Context, backend Backend, location string) (Cache, error) {
	switch backend {
	case BackendNone, "":
		return NewNullCache(), nil
	case BackendFile:
		if location == "" {
			dir, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			location = dir
		}
		fc, err := NewFileCache(location)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		rc, err := NewRedisCache(ctx, location)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}

// DefaultDir returns the per-user cache directory, honoring XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "facetower"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(dir, "facetower"), nil
}
