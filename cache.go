package zodgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores digests of generated files so unchanged output is not
// rewritten. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies a generated file.
type CacheKey struct {
	Target string
	File   string
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Target + ":" + k.File
}

// Digest returns the hex SHA-256 of content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
