package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces the value for a cache miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Loader wraps a Store with read-through semantics: on a miss it runs
// the compute function, collapsing concurrent misses on the same key
// into a single in-flight call, and caches the result. Compute errors
// are never cached, and a key-derivation failure falls back to a
// direct compute — cache trouble degrades performance, not requests.
type Loader struct {
	store     Store
	generator *Generator
	policy    Policy
	group     singleflight.Group
}

// NewLoader creates a read-through loader. A nil store degrades to
// NopStore; a nil generator gets a default.
func NewLoader(store Store, generator *Generator, policy Policy) *Loader {
	if store == nil {
		store = NopStore{}
	}
	if generator == nil {
		generator = NewGenerator()
	}
	return &Loader{
		store:     store,
		generator: generator,
		policy:    policy,
	}
}

// GetOrCompute returns the cached value for (namespace, payload) or
// computes, caches and returns it. The second return reports whether
// the value came from the cache.
func (l *Loader) GetOrCompute(ctx context.Context, namespace string, payload any, ttl time.Duration, compute ComputeFunc) ([]byte, bool, error) {
	key, err := l.generator.Key(namespace, payload)
	if err != nil {
		// No key, no caching. The call still succeeds.
		value, err := compute(ctx)
		return value, false, err
	}

	if value, ok := l.store.Get(ctx, key); ok {
		return value, true, nil
	}

	result, err, _ := l.group.Do(key, func() (any, error) {
		// A concurrent caller may have populated the key while we
		// waited on the flight group.
		if value, ok := l.store.Get(ctx, key); ok {
			return value, nil
		}

		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		if effective := l.policy.EffectiveTTL(ttl); effective > 0 {
			l.store.Set(ctx, key, value, effective)
		}
		return value, nil
	})
	if err != nil {
		return nil, false, err
	}

	return result.([]byte), false, nil
}
