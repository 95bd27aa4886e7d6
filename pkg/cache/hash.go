package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// HTTPKey returns the cache key for a raw response fetched from url.
// The URL itself is the identity of the query.
func HTTPKey(url string) string {
	return "http:" + url
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
