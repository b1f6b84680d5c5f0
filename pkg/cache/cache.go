// Package cache stores rendered layouts and artifacts between runs.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// # Keys
//
// Keys are built by a [Keyer] from a content hash and the options that
// influence the output, so a changed dataset or option never hits a stale
// entry:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: "svg"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of 0 means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// LayoutKeyOpts holds the options that change computed positions.
type LayoutKeyOpts struct {
	Jitter bool `json:"jitter"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Radius      float64 `json:"radius,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	Labels      bool    `json:"labels,omitempty"`
	Title       string  `json:"title,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey keys the positions computed for a dataset.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys one rendered output format.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// NullCache stores nothing; every Get misses. It backs --no-cache and the
// "none" backend.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
