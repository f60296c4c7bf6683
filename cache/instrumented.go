package cache

import (
	"context"
	"time"
)

// Instrumented composes a Store, a Tracker and a Generator behind one
// API. Get records a hit or miss from the underlying result before
// returning it; Set records a set only when the underlying store
// confirmed the write; everything else passes through unchanged.
type Instrumented struct {
	store     Store
	tracker   *Tracker
	generator *Generator
	cacheType string
}

// NewInstrumented creates an instrumented cache over store. A nil
// store degrades to NopStore; nil tracker and generator get defaults.
// cacheType labels statistics forwarded to the metrics sink; empty
// means DefaultCacheType.
func NewInstrumented(store Store, tracker *Tracker, generator *Generator, cacheType string) *Instrumented {
	if store == nil {
		store = NopStore{}
	}
	if tracker == nil {
		tracker = NewTracker(nil, nil)
	}
	if generator == nil {
		generator = NewGenerator()
	}
	return &Instrumented{
		store:     store,
		tracker:   tracker,
		generator: generator,
		cacheType: cacheType,
	}
}

// Get retrieves a value, recording a hit or miss.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok := c.store.Get(ctx, key)
	if ok {
		c.tracker.RecordHit(c.cacheType)
	} else {
		c.tracker.RecordMiss(c.cacheType)
	}
	return value, ok
}

// Set stores a value, recording a set only on a confirmed write.
func (c *Instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	ok := c.store.Set(ctx, key, value, ttl)
	if ok {
		c.tracker.RecordSet()
	}
	return ok
}

// Delete passes through to the underlying store.
func (c *Instrumented) Delete(ctx context.Context, key string) int {
	return c.store.Delete(ctx, key)
}

// Flush passes through to the underlying store.
func (c *Instrumented) Flush(ctx context.Context) error {
	return c.store.Flush(ctx)
}

// Healthy passes through to the underlying store.
func (c *Instrumented) Healthy(ctx context.Context) bool {
	return c.store.Healthy(ctx)
}

// Key derives a cache key via the configured generator.
func (c *Instrumented) Key(namespace string, payload any, opts ...KeyOption) (string, error) {
	return c.generator.Key(namespace, payload, opts...)
}

// Statistics returns the tracker's current snapshot.
func (c *Instrumented) Statistics() Statistics {
	return c.tracker.Statistics()
}

// Ensure Instrumented implements Store
var _ Store = (*Instrumented)(nil)
