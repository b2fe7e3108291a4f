package cache

import (
	"context"
	"time"
)

// NullCache disables artifact caching. Every lookup misses and writes are
// dropped, so a runner built on it lays out every diagram from scratch.
type NullCache struct{}

// NewNullCache returns the cache used by `render --no-cache` and by runners
// constructed without a cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
