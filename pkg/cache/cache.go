// Package cache provides the render cache used by the pipeline: datasets,
// point sets, and rendered figure artifacts are stored separately under
// content-derived keys so repeated renders of the same request skip the
// stages that have not changed.
//
// Three backends are available: a file cache for CLI usage, a Redis cache
// for server deployments, and a null cache that disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Stage TTLs. Remote datasets go stale quickly; geometry and artifacts
// are pure functions of their inputs and can live longer.
const (
	TTLDataset  = 5 * time.Minute
	TTLPointSet = time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache stores opaque byte values under string keys with per-entry TTLs.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache is a no-op cache: every read misses and writes are discarded.
type NullCache struct{}

// NewNullCache creates a cache that disables caching.
func NewNullCache() Cache { return &NullCache{} }

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
