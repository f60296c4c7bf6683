package cache

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/jonwraymond/promptcache/observe"
)

// DefaultCacheType labels operations that carry no explicit type.
const DefaultCacheType = "default"

// hitRateLogDelta is the hit-rate change, in percentage points, that
// triggers an informational log line.
const hitRateLogDelta = 5.0

// Statistics is a snapshot of tracker counters. HitRate is formatted
// as a percentage with two decimals ("66.67%"); "0.00%" before any
// get has been observed.
type Statistics struct {
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Sets    int64  `json:"sets"`
	HitRate string `json:"hitRate"`
}

// MetricsSink receives cache events for an external metrics system.
// Every method is best-effort: implementations must not panic, and the
// tracker never requires a sink to function.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic; failures are swallowed.
type MetricsSink interface {
	RecordCacheHit(cacheType string)
	RecordCacheMiss(cacheType string)
	UpdateCacheHitRate(cacheType string, percent float64)
}

// NopSink is the no-op MetricsSink used when no sink is configured.
type NopSink struct{}

func (NopSink) RecordCacheHit(string)              {}
func (NopSink) RecordCacheMiss(string)             {}
func (NopSink) UpdateCacheHitRate(string, float64) {}

// Ensure NopSink implements MetricsSink
var _ MetricsSink = NopSink{}

// Tracker counts cache hits, misses and sets. Counters are global to
// the tracker instance, not per type; the type label is only forwarded
// to the sink. Independent trackers never share counts.
type Tracker struct {
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64

	sink   MetricsSink
	logger observe.Logger

	mu             sync.Mutex
	lastLoggedRate float64
	rateObserved   bool
}

// NewTracker creates a statistics tracker. A nil sink or logger is
// replaced with a no-op.
func NewTracker(sink MetricsSink, logger observe.Logger) *Tracker {
	if sink == nil {
		sink = NopSink{}
	}
	if logger == nil {
		logger = observe.Nop()
	}
	return &Tracker{sink: sink, logger: logger}
}

// RecordHit counts a cache hit. An empty cacheType is normalized to
// DefaultCacheType before forwarding to the sink.
func (t *Tracker) RecordHit(cacheType string) {
	t.hits.Add(1)
	t.sink.RecordCacheHit(normalizeType(cacheType))
	t.observeRate(cacheType)
}

// RecordMiss counts a cache miss.
func (t *Tracker) RecordMiss(cacheType string) {
	t.misses.Add(1)
	t.sink.RecordCacheMiss(normalizeType(cacheType))
	t.observeRate(cacheType)
}

// RecordSet counts a confirmed write.
func (t *Tracker) RecordSet() {
	t.sets.Add(1)
}

// Statistics returns a snapshot of the counters.
func (t *Tracker) Statistics() Statistics {
	hits := t.hits.Load()
	misses := t.misses.Load()

	return Statistics{
		Hits:    hits,
		Misses:  misses,
		Sets:    t.sets.Load(),
		HitRate: fmt.Sprintf("%.2f%%", hitRatePercent(hits, misses)),
	}
}

// Reset clears all counters. Counters are otherwise process-lifetime.
func (t *Tracker) Reset() {
	t.hits.Store(0)
	t.misses.Store(0)
	t.sets.Store(0)

	t.mu.Lock()
	t.lastLoggedRate = 0
	t.rateObserved = false
	t.mu.Unlock()
}

func (t *Tracker) observeRate(cacheType string) {
	rate := hitRatePercent(t.hits.Load(), t.misses.Load())
	t.sink.UpdateCacheHitRate(normalizeType(cacheType), rate)

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.rateObserved {
		t.rateObserved = true
		t.lastLoggedRate = rate
		return
	}

	if math.Abs(rate-t.lastLoggedRate) >= hitRateLogDelta {
		t.logger.Info(context.Background(), "cache hit rate changed",
			observe.Field{Key: "cache_type", Value: normalizeType(cacheType)},
			observe.Field{Key: "hit_rate", Value: fmt.Sprintf("%.2f%%", rate)},
			observe.Field{Key: "previous", Value: fmt.Sprintf("%.2f%%", t.lastLoggedRate)},
		)
		t.lastLoggedRate = rate
	}
}

func hitRatePercent(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func normalizeType(cacheType string) string {
	if cacheType == "" {
		return DefaultCacheType
	}
	return cacheType
}
