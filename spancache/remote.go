package spancache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Remote is the backend consumed by the cache's remote tier.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: methods must honor cancellation/deadlines.
//   - Errors: a miss is (nil, false, nil), not an error; errors mean
//     the backend itself failed. The cache downgrades every error to
//     the memory tier.
type Remote interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the value with the backend's native TTL mechanism.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int, error)

	// Keys returns all keys matching the glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Flush removes every key the backend holds for this cache.
	Flush(ctx context.Context) error

	// Connected reports whether the backend is currently reachable.
	Connected(ctx context.Context) bool
}

// RedisRemote adapts a go-redis client to the Remote interface.
type RedisRemote struct {
	client *redis.Client
}

// NewRedisRemote wraps an existing client. The caller keeps ownership
// and closes it.
func NewRedisRemote(client *redis.Client) *RedisRemote {
	return &RedisRemote{client: client}
}

func (r *RedisRemote) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisRemote) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisRemote) Delete(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := r.client.Del(ctx, keys...).Result()
	return int(n), err
}

func (r *RedisRemote) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (r *RedisRemote) Flush(ctx context.Context) error {
	return r.client.FlushDB(ctx).Err()
}

func (r *RedisRemote) Connected(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

// Ensure RedisRemote implements Remote
var _ Remote = (*RedisRemote)(nil)
