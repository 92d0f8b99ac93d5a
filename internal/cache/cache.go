package cache

import (
	"context"
	"time"
)

// Cache is a small read-through cache for hot catalogue rails (featured,
// trending, new arrivals). Implementations must tolerate being skipped:
// every caller falls back to the database on a miss or error.
type Cache interface {
	// Get returns the cached payload for a key, or ok=false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a payload under a key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes the given keys, ignoring ones that do not exist.
	Delete(ctx context.Context, keys ...string)

	// Close releases any held connections.
	Close() error
}

// Keys for the cached catalogue rails.
const (
	KeyFeatured    = "products:featured"
	KeyTrending    = "products:trending"
	KeyNewArrivals = "products:new-arrivals"
)

// RailKeys lists every rail key, for invalidation on product writes.
var RailKeys = []string{KeyFeatured, KeyTrending, KeyNewArrivals}
