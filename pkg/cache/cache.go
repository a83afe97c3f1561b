// Package cache stores generated point sequences and rendered artifacts.
//
// A [Cache] is a byte store with per-entry expiry. A [Keyer] turns run
// parameters into cache keys so that the same seeded run maps to the same
// entry across processes and backends.
//
// Backends:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a local directory
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Network backends classify transient failures with [Retryable] and retry
// them with [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Default time-to-live for cache entries.
const (
	TTLPoints   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypePoints   = "points"
	KeyTypeArtifact = "artifact"
)

// Cache is a key/value byte store.
//
// Get reports a miss with (nil, false, nil). A zero ttl in Set means the
// entry never expires. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// PointsKey identifies a seeded point sequence.
	PointsKey(points int, seed uint64) string

	// ArtifactKey identifies one rendered output of a point sequence.
	ArtifactKey(pointsHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every render option that changes the output bytes.
type ArtifactKeyOpts struct {
	Format           string  `json:"format"`
	Style            string  `json:"style,omitempty"`
	Scale            float64 `json:"scale,omitempty"`
	OffsetX          float64 `json:"offset_x,omitempty"`
	OffsetY          float64 `json:"offset_y,omitempty"`
	Width            int     `json:"width,omitempty"`
	Height           int     `json:"height,omitempty"`
	DPI              float64 `json:"dpi,omitempty"`
	Color            string  `json:"color,omitempty"`
	DotSize          float64 `json:"dot_size,omitempty"`
	ColorByTransform bool    `json:"color_by_transform,omitempty"`
}

// DefaultKeyer hashes run parameters into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PointsKey returns "points:<sha256>".
func (DefaultKeyer) PointsKey(points int, seed uint64) string {
	return hashKey(KeyTypePoints, points, seed)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(pointsHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, pointsHash, opts)
}
