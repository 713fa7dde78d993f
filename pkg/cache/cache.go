// Package cache stores serialized traces and check results.
//
// Backends share the [Cache] interface:
//
//   - [NullCache] stores nothing (caching disabled)
//   - [MemoryCache] keeps entries in process, for tests and a single server
//   - [FileCache] writes one file per entry, for the CLI
//   - [RedisCache] shares entries between server instances
//
// Keys come from a [Keyer] so that every caller derives the same key for the
// same trace id or the same (graph, start, operation) input.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default lifetimes.
const (
	// TTLTrace is how long a saved trace can be replayed.
	TTLTrace = 7 * 24 * time.Hour

	// TTLResult is how long a detection or elimination result is reused for
	// an identical graph and start node.
	TTLResult = 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)
