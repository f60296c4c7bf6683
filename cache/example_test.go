package cache_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/promptcache/cache"
	"github.com/jonwraymond/promptcache/resilience"
)

func ExampleNewMemoryStore() {
	store := cache.NewMemoryStore(1000, cache.DefaultPolicy())
	ctx := context.Background()

	store.Set(ctx, "optimize:abc123", []byte(`{"result":"cached"}`), 0)

	value, ok := store.Get(ctx, "optimize:abc123")
	fmt.Println("Hit:", ok)
	fmt.Println("Value:", string(value))
	// Output:
	// Hit: true
	// Value: {"result":"cached"}
}

func ExampleNewGenerator() {
	g := cache.NewGenerator()

	// Key order in the payload map never matters.
	a, _ := g.Key("optimize", map[string]any{"prompt": "hello", "model": "gpt-4"})
	b, _ := g.Key("optimize", map[string]any{"model": "gpt-4", "prompt": "hello"})

	fmt.Println("Deterministic:", a == b)
	// Output:
	// Deterministic: true
}

func ExampleTracker_Statistics() {
	tracker := cache.NewTracker(nil, nil)

	tracker.RecordHit("prompt-optimization")
	tracker.RecordHit("prompt-optimization")
	tracker.RecordMiss("prompt-optimization")

	stats := tracker.Statistics()
	fmt.Printf("Hits: %d, Misses: %d, HitRate: %s\n", stats.Hits, stats.Misses, stats.HitRate)
	// Output:
	// Hits: 2, Misses: 1, HitRate: 66.67%
}

func ExampleNewLoader() {
	store := cache.NewMemoryStore(1000, cache.DefaultPolicy())
	loader := cache.NewLoader(store, cache.NewGenerator(), cache.DefaultPolicy())
	ctx := context.Background()

	compute := func(context.Context) ([]byte, error) {
		fmt.Println("computing...")
		return []byte("expensive result"), nil
	}

	// First call misses and computes; second call is served from cache.
	first, _, _ := loader.GetOrCompute(ctx, "optimize", "payload", time.Hour, compute)
	second, cached, _ := loader.GetOrCompute(ctx, "optimize", "payload", time.Hour, compute)

	fmt.Println("First:", string(first))
	fmt.Println("Second:", string(second), "cached:", cached)
	// Output:
	// computing...
	// First: expensive result
	// Second: expensive result cached: true
}

func ExampleNewLoader_retryingCompute() {
	store := cache.NewMemoryStore(1000, cache.DefaultPolicy())
	loader := cache.NewLoader(store, cache.NewGenerator(), cache.DefaultPolicy())

	// Guard the compute path itself: transient upstream failures are
	// retried before the result is cached.
	executor := resilience.NewExecutor(
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			Jitter:       false,
		})),
		resilience.WithTimeout(time.Second),
	)

	ctx := context.Background()
	attempts := 0

	value, _, err := loader.GetOrCompute(ctx, "optimize", "payload", time.Hour, func(ctx context.Context) ([]byte, error) {
		var result []byte
		execErr := executor.Execute(ctx, func(ctx context.Context) error {
			attempts++
			if attempts < 2 {
				return errors.New("upstream hiccup")
			}
			result = []byte("optimized prompt")
			return nil
		})
		return result, execErr
	})

	fmt.Printf("Value: %s, err: %v, attempts: %d\n", value, err, attempts)
	// Output:
	// Value: optimized prompt, err: <nil>, attempts: 2
}

func ExamplePolicy_EffectiveTTL() {
	policy := cache.Policy{
		DefaultTTL: time.Hour,
		MaxTTL:     24 * time.Hour,
	}

	fmt.Println(policy.EffectiveTTL(0))              // falls back to default
	fmt.Println(policy.EffectiveTTL(time.Minute))    // override honored
	fmt.Println(policy.EffectiveTTL(48 * time.Hour)) // clamped
	// Output:
	// 1h0m0s
	// 1m0s
	// 24h0m0s
}
