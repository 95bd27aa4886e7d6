package cache

import (
	"errors"
)

// Sentinel errors for caching operations.
var (
	// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrClosed is returned by a [MemoryCache] after Close.
	ErrClosed = errors.New("cache closed")
)
