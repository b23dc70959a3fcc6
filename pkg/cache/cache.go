// Package cache stores resolved dependency graphs so repeated resolutions
// of the same record are served without re-walking the store.
//
// Three backends are provided: a file cache for CLI runs, a Redis cache for
// the server, and a null cache for disabling caching entirely. Entries are
// opaque byte slices with a TTL; callers handle serialization.
package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the default lifetime of cached resolution results.
const DefaultTTL = 24 * time.Hour

// ErrCacheMiss is returned by helpers that treat a miss as an error.
// Cache.Get reports misses via its bool return instead.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the storage contract shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A non-positive TTL stores the
	// value without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ResolveKey generates the cache key for a resolution result.
// Distinct (name, version, maxDepth) triples map to distinct keys.
func ResolveKey(name, version string, maxDepth int) string {
	return hashKey("resolve", name, version, maxDepth)
}
