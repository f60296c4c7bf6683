package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CacheMetrics publishes cache counters and the running hit rate to an
// OpenTelemetry meter. It satisfies the cache package's MetricsSink
// contract: every method is best-effort, never panics and never blocks
// on the exporter.
type CacheMetrics struct {
	hits    metric.Int64Counter
	misses  metric.Int64Counter
	hitRate metric.Float64Gauge
}

// NewCacheMetrics creates the cache instruments on the given meter.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	hits, err := meter.Int64Counter(
		"cache.hits",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"cache.misses",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	hitRate, err := meter.Float64Gauge(
		"cache.hit_rate",
		metric.WithDescription("Cache hit rate as a percentage"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{
		hits:    hits,
		misses:  misses,
		hitRate: hitRate,
	}, nil
}

// RecordCacheHit increments the hit counter for the given cache type.
func (m *CacheMetrics) RecordCacheHit(cacheType string) {
	m.hits.Add(context.Background(), 1, typeAttr(cacheType))
}

// RecordCacheMiss increments the miss counter for the given cache type.
func (m *CacheMetrics) RecordCacheMiss(cacheType string) {
	m.misses.Add(context.Background(), 1, typeAttr(cacheType))
}

// UpdateCacheHitRate records the current hit rate for the given cache type.
func (m *CacheMetrics) UpdateCacheHitRate(cacheType string, percent float64) {
	m.hitRate.Record(context.Background(), percent, typeAttr(cacheType))
}

func typeAttr(cacheType string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("cache.type", cacheType))
}
