package cache

import (
	"context"
	"time"
)

// noopCache is used when Redis is disabled: every read is a miss.
type noopCache struct{}

// NewNoopCache returns a cache that stores nothing.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, key string) ([]byte, bool)            { return nil, false }
func (noopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}
func (noopCache) Delete(ctx context.Context, keys ...string)                    {}
func (noopCache) Close() error                                                  { return nil }
