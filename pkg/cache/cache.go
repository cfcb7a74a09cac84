// Package cache stores generated graphs so repeated runs with the same
// parameters skip generation.
//
// Three backends implement [Cache]: [FileCache] under the user cache
// directory, [RedisCache] for a shared server, and [NullCache] when caching
// is disabled. [Graphs] layers graph encoding and key derivation on top of
// any backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
