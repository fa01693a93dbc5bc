// Package cache provides the render-artifact cache for docgraph.
//
// Graph layout is the slow part of documentation builds: the DOT text for an
// unchanged graph renders to identical bytes, so rendered artifacts are
// cached keyed by the hash of the DOT text plus the output format. Backends:
//   - file: directory of JSON entries for CLI usage
//   - redis: shared cache for the preview server
//   - null: caching disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is the interface all artifact-cache backends implement.
type Cache interface {
	// Get retrieves the value for key. The second result reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArtifactKey builds the cache key for a rendered artifact from the hash of
// the serialized DOT text and the output format.
func ArtifactKey(dotHash, format string) string {
	return fmt.Sprintf("artifact:%s:%s", format, dotHash)
}
