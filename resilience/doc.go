// Package resilience guards cache backend round trips.
//
// A remote cache backend fails in all the usual ways: it times out, it
// refuses connections, it slows down under load. The store layer
// converts those failures into misses, but it still needs to stop
// hammering a backend that is clearly down and to bound how long and
// how concurrently it waits. These patterns provide that:
//
//   - Circuit Breaker: stops round trips to a failing backend after a
//     threshold, probing again after a reset timeout.
//
//   - Retry: retries transient failures with configurable backoff
//     strategies (exponential, linear, constant).
//
//   - Bulkhead: caps in-flight round trips so a slow backend cannot
//     absorb every goroutine.
//
//   - Timeout: bounds each round trip.
//
// # Usage
//
// Each pattern can be used independently or composed together:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    MaxFailures:  5,
//	    ResetTimeout: 30 * time.Second,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithTimeout(2*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return client.Get(ctx, key).Err()
//	})
package resilience
