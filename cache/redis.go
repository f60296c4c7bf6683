package cache

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/promptcache/observe"
	"github.com/jonwraymond/promptcache/resilience"
)

var errProbeMismatch = errors.New("cache: health probe read back a different value")

// RedisStoreConfig configures a RedisStore.
type RedisStoreConfig struct {
	// Redis is the client configuration. Resolve is applied during
	// construction.
	Redis RedisConfig

	// Policy supplies the default TTL for writes without one.
	Policy Policy

	// Logger receives degraded-mode warnings. Nil means no logging.
	Logger observe.Logger

	// OperationTimeout bounds each round trip. Default: 2s.
	OperationTimeout time.Duration

	// BreakerMaxFailures opens the circuit after this many consecutive
	// failures. Default: 5.
	BreakerMaxFailures int

	// BreakerResetTimeout is how long the circuit stays open before a
	// probe. Default: 30s.
	BreakerResetTimeout time.Duration

	// MaxConcurrent caps in-flight round trips. 0 disables the cap.
	MaxConcurrent int
}

// RedisStore is a Store backed by Redis. Backend failures are caught
// at this boundary and downgraded: Get reports a miss, Set reports an
// unconfirmed write, and Healthy reports false, each with a logged
// warning. Round trips run through a resilience executor (timeout,
// circuit breaker, optional bulkhead), so a struggling backend sheds
// load instead of stalling callers.
type RedisStore struct {
	client *redis.Client
	policy Policy
	exec   *resilience.Executor
	logger observe.Logger
}

// NewRedisStore connects to Redis and returns a store. Construction
// fails if the server cannot be reached; callers that want memory-only
// operation simply skip constructing a RedisStore.
func NewRedisStore(cfg RedisStoreConfig) (*RedisStore, error) {
	resolved, err := cfg.Redis.Resolve()
	if err != nil {
		return nil, err
	}

	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.Nop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         resolved.Addr,
		Password:     resolved.Password,
		DB:           resolved.DB,
		MaxRetries:   resolved.MaxRetries,
		DialTimeout:  resolved.DialTimeout,
		ReadTimeout:  resolved.ReadTimeout,
		WriteTimeout: resolved.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), resolved.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{
		client: client,
		policy: cfg.Policy,
		exec:   newRedisExecutor(cfg),
		logger: cfg.Logger,
	}, nil
}

// NewRedisStoreWithClient wraps an existing client, mainly for tests.
func NewRedisStoreWithClient(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.Nop()
	}
	return &RedisStore{
		client: client,
		policy: cfg.Policy,
		exec:   newRedisExecutor(cfg),
		logger: cfg.Logger,
	}
}

func newRedisExecutor(cfg RedisStoreConfig) *resilience.Executor {
	opts := []resilience.ExecutorOption{
		resilience.WithTimeout(cfg.OperationTimeout),
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:  cfg.BreakerMaxFailures,
			ResetTimeout: cfg.BreakerResetTimeout,
		})),
	}
	if cfg.MaxConcurrent > 0 {
		opts = append(opts, resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: cfg.MaxConcurrent,
		})))
	}
	return resilience.NewExecutor(opts...)
}

// Get retrieves a value. Misses, expired keys and backend failures all
// return (nil, false); failures are logged.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		data []byte
		miss bool
	)

	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		b, err := s.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			miss = true
			return nil
		}
		if err != nil {
			return err
		}
		data = b
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "redis get failed",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return nil, false
	}
	if miss {
		return nil, false
	}

	return data, true
}

// Set stores a value with the given TTL, falling back to the policy
// default for a zero TTL. Returns true only on a confirmed write.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if ValidateKey(key) != nil {
		return false
	}

	ttl = s.policy.EffectiveTTL(ttl)
	if ttl <= 0 {
		return false
	}

	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		s.logger.Warn(ctx, "redis set failed",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return false
	}

	return true
}

// Delete removes keys and returns how many were removed. Backend
// failures are logged and count as zero removals.
func (s *RedisStore) Delete(ctx context.Context, key string) int {
	var removed int64

	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		n, err := s.client.Del(ctx, key).Result()
		removed = n
		return err
	})
	if err != nil {
		s.logger.Warn(ctx, "redis delete failed",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return 0
	}

	return int(removed)
}

// Flush clears the whole database the store manages.
func (s *RedisStore) Flush(ctx context.Context) error {
	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.client.FlushDB(ctx).Err()
	})
}

// Healthy performs a write/verify/delete round trip and reports false
// on any failure, logging the cause.
func (s *RedisStore) Healthy(ctx context.Context) bool {
	probe := "healthcheck:" + strconv.FormatInt(time.Now().UnixNano(), 16)
	want := []byte("ok")

	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		if err := s.client.Set(ctx, probe, want, time.Minute).Err(); err != nil {
			return err
		}
		got, err := s.client.Get(ctx, probe).Bytes()
		if err != nil {
			return err
		}
		defer s.client.Del(ctx, probe)
		if !bytes.Equal(got, want) {
			return errProbeMismatch
		}
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "redis health check failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
		return false
	}

	return true
}

// Keys returns all keys matching the glob-style pattern, using an
// incremental scan rather than the blocking KEYS command.
func (s *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string

	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		return iter.Err()
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
