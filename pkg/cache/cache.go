// Package cache stores rendered diagram artifacts.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTL:
//
//   - [FileCache]: JSON entry files under a directory, used by the CLI
//   - [MemoryCache]: bounded in-process LRU, used by the HTTP server
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer] so that the pipeline never builds them by
// hand. An artifact key hashes the compiled DOT document and stylesheet
// together with every option that changes the rendered bytes.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for rendered artifacts.
type Cache interface {
	// Get returns the value stored under key. A miss is reported as
	// (nil, false, nil); errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted or evicted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLArtifact is how long rendered artifacts are kept. Keys are content
// hashes, so entries never go stale; the TTL only bounds storage.
const TTLArtifact = 7 * 24 * time.Hour
