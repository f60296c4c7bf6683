package semantic

import "fmt"

// Health classifies overall cache effectiveness.
type Health string

const (
	Healthy          Health = "healthy"
	NeedsImprovement Health = "needs-improvement"
)

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// AggregateStats is the input to cache analysis. HitRate is a ratio in
// [0, 1], not a percentage.
type AggregateStats struct {
	HitRate  float64
	Hits     int64
	Misses   int64
	KeyCount int64
}

// Recommendation is a single tuning suggestion.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Action   string   `json:"action"`
	Reason   string   `json:"reason"`
}

// Report is the result of analyzing aggregate cache statistics.
type Report struct {
	Health          Health           `json:"health"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Advisor thresholds. Tunable constants, not contracts; only the
// ordering of outcomes matters to callers.
const (
	healthyHitRate = 0.8
	lowHitRate     = 0.5
	largeKeySpace  = 1000
	coldCacheHits  = 10
)

// Advisor turns aggregate statistics into tuning recommendations.
type Advisor struct{}

// NewAdvisor creates an advisor.
func NewAdvisor() *Advisor {
	return &Advisor{}
}

// Analyze classifies cache health and emits prioritized suggestions.
// A hit rate below 0.5 over a large key space always surfaces a
// high-priority recommendation to enable semantic keys.
func (a *Advisor) Analyze(stats AggregateStats) Report {
	var recs []Recommendation

	if stats.HitRate < lowHitRate && stats.KeyCount > largeKeySpace {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh,
			Action:   "enable semantic keys",
			Reason: fmt.Sprintf("hit rate %.2f with %d keys suggests near-duplicate payloads are fragmenting the key space",
				stats.HitRate, stats.KeyCount),
		})
	}

	if stats.HitRate < lowHitRate {
		recs = append(recs, Recommendation{
			Priority: PriorityMedium,
			Action:   "increase TTLs",
			Reason:   fmt.Sprintf("hit rate %.2f is below %.2f; entries may be expiring before reuse", stats.HitRate, lowHitRate),
		})
	}

	if stats.Misses > stats.Hits && stats.Hits < coldCacheHits {
		recs = append(recs, Recommendation{
			Priority: PriorityLow,
			Action:   "pre-warm common prompts",
			Reason:   "the cache is cold; warming representative prompts avoids first-request latency",
		})
	}

	health := Healthy
	if stats.HitRate < healthyHitRate {
		health = NeedsImprovement
	}

	return Report{Health: health, Recommendations: recs}
}
