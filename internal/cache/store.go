// Package cache memoizes read-only JSON responses in an external key-value
// store. The store is injected, so Redis in production and an in-memory map
// in tests and local development are interchangeable. Every store failure
// degrades to a pass-through of the request.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("cache: key not found")
	// ErrNotConnected is returned by stores whose backend is unreachable.
	ErrNotConnected = errors.New("cache: store not connected")
)

// Store abstracts the key-value backend used by the response cache.
// All operations are safe for concurrent use.
type Store interface {
	// Get retrieves the value associated with key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. Expiry is enforced by the store.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Connected reports whether the backend is currently reachable. The
	// middleware checks it before every operation.
	Connected() bool
}
