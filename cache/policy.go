package cache

import "time"

// Policy configures TTL behavior.
type Policy struct {
	// DefaultTTL is the TTL to use when none is specified.
	// If zero, caching is disabled by default.
	DefaultTTL time.Duration

	// VolatileTTL is the shorter TTL class for entries whose inputs
	// change frequently. Call sites opt in per write.
	VolatileTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the default TTL policy.
// DefaultTTL: 1 hour, VolatileTTL: 5 minutes, MaxTTL: 24 hours.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL:  1 * time.Hour,
		VolatileTTL: 5 * time.Minute,
		MaxTTL:      24 * time.Hour,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	// Use default if no override (or negative override)
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}

	// Clamp to MaxTTL if set
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}

// EffectiveVolatileTTL returns the TTL for the volatile class, falling
// back to the default class when unset.
func (p Policy) EffectiveVolatileTTL() time.Duration {
	if p.VolatileTTL > 0 {
		return p.EffectiveTTL(p.VolatileTTL)
	}
	return p.EffectiveTTL(0)
}
