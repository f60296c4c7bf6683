package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore        = errors.New("cache: store is nil")
	ErrInvalidKey      = errors.New("cache: key is invalid")
	ErrKeyTooLong      = errors.New("cache: key exceeds max length")
	ErrNoSemanticKeyer = errors.New("cache: no semantic keyer configured")
)

// Store is the interface for a single TTL key-value backend.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: methods should honor cancellation/deadlines where applicable.
//   - Errors: backend failures never escape as panics or errors from
//     Get/Set; Get returns (nil, false) and Set returns false instead.
//   - Capability: the contract is complete — there are no optional
//     methods. Implementations that cannot support an operation provide
//     a safe no-op (see NopStore).
type Store interface {
	// Get retrieves a cached value. Returns (nil, false) on miss,
	// expiry, or backend failure.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL. A zero TTL uses the
	// store's default. Returns true only if the backend confirmed
	// the write.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Delete removes a cached value and returns the number of keys
	// removed (0 or 1 for a single-key delete).
	Delete(ctx context.Context, key string) int

	// Flush removes every key the store manages.
	Flush(ctx context.Context) error

	// Healthy reports whether the backend passes a cheap round-trip
	// write/verify probe. Probe failures are logged, never propagated.
	Healthy(ctx context.Context) bool
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// NopStore is a Store that stores nothing. It is the safe default for
// composition: Get always misses, Set never confirms, and health is
// vacuously true.
type NopStore struct{}

// Get always returns a miss.
func (NopStore) Get(context.Context, string) ([]byte, bool) { return nil, false }

// Set never confirms a write.
func (NopStore) Set(context.Context, string, []byte, time.Duration) bool { return false }

// Delete removes nothing.
func (NopStore) Delete(context.Context, string) int { return 0 }

// Flush is a no-op.
func (NopStore) Flush(context.Context) error { return nil }

// Healthy is vacuously true.
func (NopStore) Healthy(context.Context) bool { return true }

// Ensure NopStore implements Store
var _ Store = NopStore{}
