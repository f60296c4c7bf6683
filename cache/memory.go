package cache

import (
	"bytes"
	"context"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the in-memory store when no size is given.
const DefaultMaxEntries = 10000

// MemoryStore is a bounded in-process Store. Entries past their
// per-entry expiry are treated as absent and evicted lazily on read;
// capacity pressure evicts least-recently-used entries.
type MemoryStore struct {
	entries *lru.Cache[string, memoryEntry]
	policy  Policy
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates a bounded in-memory store. maxEntries <= 0
// uses DefaultMaxEntries.
func NewMemoryStore(maxEntries int, policy Policy) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	// lru.New only errors for non-positive sizes, which are handled above.
	entries, _ := lru.New[string, memoryEntry](maxEntries)
	return &MemoryStore{
		entries: entries,
		policy:  policy,
	}
}

// Get retrieves a value. Returns (nil, false) on miss or expiry;
// expired entries are evicted on the way out.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	entry, ok := s.entries.Get(key)
	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		s.entries.Remove(key)
		return nil, false
	}

	return entry.value, true
}

// Set stores a value with the given TTL, falling back to the policy
// default for a zero TTL. Returns false for invalid keys or when the
// effective TTL disables caching.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	if ValidateKey(key) != nil {
		return false
	}

	ttl = s.policy.EffectiveTTL(ttl)
	if ttl <= 0 {
		return false
	}

	s.entries.Add(key, memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	return true
}

// Delete removes a value. Returns 1 if the key was present.
func (s *MemoryStore) Delete(_ context.Context, key string) int {
	if s.entries.Remove(key) {
		return 1
	}
	return 0
}

// Flush removes every entry.
func (s *MemoryStore) Flush(_ context.Context) error {
	s.entries.Purge()
	return nil
}

// Healthy performs a write/verify/delete round trip against the map.
func (s *MemoryStore) Healthy(ctx context.Context) bool {
	probe := "healthcheck:" + strconv.FormatInt(time.Now().UnixNano(), 16)
	want := []byte("ok")

	if !s.Set(ctx, probe, want, time.Minute) {
		return false
	}
	got, ok := s.Get(ctx, probe)
	s.entries.Remove(probe)

	return ok && bytes.Equal(got, want)
}

// Len returns the number of live entries, including any not yet
// evicted past their expiry.
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
