// Package cache provides response caching for CRDB queries.
//
// Cached values are raw response bodies keyed by the query URL. Because the
// URL builder omits default parameters and serializes fields in a fixed
// order, identical queries map to identical keys.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under ~/.cache/crdb (CLI default)
//   - [MemoryCache]: process-wide map, lost on exit
//   - [RedisCache]: shared cache for several processes or hosts
//   - [NullCache]: caching disabled
//
// Every entry carries an absolute expiry fixed at write time ([TTLHTTP] for
// query responses). Backends never extend an entry on read.
//
// # Usage
//
//	c, _ := cache.NewFileCache(dir)
//	body, hit, err := cache.GetOrCompute(ctx, c, cache.HTTPKey(url), cache.TTLHTTP,
//	    func(ctx context.Context) ([]byte, error) { return fetch(ctx, url) })
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/crdb/pkg/observability"
)

// TTLHTTP is how long a raw CRDB response stays fresh.
const TTLHTTP = 30 * 24 * time.Hour

// keyTypeHTTP labels cache events for raw HTTP responses.
const keyTypeHTTP = "http"

// Cache stores byte values under string keys with an absolute expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (nil, false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// GetOrCompute returns the cached value for key, or calls compute and stores
// its result with the given ttl. The boolean reports a cache hit.
//
// Read errors from the backend are treated as misses and write errors are
// ignored: the cache only ever saves a fetch, it never fails one. Errors
// from compute are returned unchanged and nothing is stored.
func GetOrCompute(ctx context.Context, c Cache, key string, ttl time.Duration, compute func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()

	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, keyTypeHTTP)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyTypeHTTP)

	data, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyTypeHTTP, len(data))
	}
	return data, false, nil
}

// expiresAt converts a ttl into an absolute deadline. The zero time means
// no expiry.
func expiresAt(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
