package health

import (
	"context"
	"time"

	"github.com/jonwraymond/promptcache/cache"
)

// StoreChecker probes a cache store. The store's own Healthy method
// performs a write/verify round trip and never propagates backend
// errors, so this checker only translates its boolean into a Result.
type StoreChecker struct {
	name  string
	store cache.Store
}

// NewStoreChecker creates a checker for the given store. A nil store
// degrades to NopStore, which always reports healthy.
func NewStoreChecker(name string, store cache.Store) *StoreChecker {
	if store == nil {
		store = cache.NopStore{}
	}
	return &StoreChecker{name: name, store: store}
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return c.name
}

// Check runs the store probe.
func (c *StoreChecker) Check(ctx context.Context) Result {
	start := time.Now()
	ok := c.store.Healthy(ctx)
	elapsed := time.Since(start)

	if !ok {
		return Unhealthy("cache store probe failed", ErrCheckFailed).WithDuration(elapsed)
	}
	return Healthy("cache store reachable").WithDuration(elapsed)
}

// Ping satisfies PingChecker using the same probe.
func (c *StoreChecker) Ping(ctx context.Context) error {
	if !c.store.Healthy(ctx) {
		return ErrCheckFailed
	}
	return nil
}

// Ensure StoreChecker implements PingChecker
var _ PingChecker = (*StoreChecker)(nil)
