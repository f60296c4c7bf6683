package spancache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jonwraymond/promptcache/cache"
	"github.com/jonwraymond/promptcache/observe"
)

// CacheType labels span cache statistics forwarded to the metrics sink.
const CacheType = "span-labeling"

// Defaults applied by New for zero Config fields.
const (
	DefaultMaxEntries  = 10000
	DefaultTTL         = 24 * time.Hour
	DefaultVolatileTTL = 5 * time.Minute
)

// Config configures a two-tier span cache.
type Config struct {
	// Remote is the optional remote tier. Nil means memory-only mode.
	Remote Remote

	// MaxEntries bounds the in-process mirror. Default: 10000.
	MaxEntries int

	// DefaultTTL applies to normal writes. Default: 24h.
	DefaultTTL time.Duration

	// VolatileTTL applies to writes marked Volatile. Default: 5m.
	VolatileTTL time.Duration

	// Logger receives degraded-mode warnings. Nil means no logging.
	Logger observe.Logger

	// Sink receives hit/miss events, best-effort. Nil means none.
	Sink cache.MetricsSink
}

// Stats is a snapshot of cache counters and tier state.
type Stats struct {
	Hits            int64 `json:"hits"`
	Misses          int64 `json:"misses"`
	Sets            int64 `json:"sets"`
	Errors          int64 `json:"errors"`
	Size            int   `json:"size"`
	RemoteConnected bool  `json:"remoteConnected"`
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Cache is the two-tier span-labeling cache. All methods are safe for
// concurrent use. Remote failures never propagate: they increment the
// Errors counter, log a warning and fall back to the memory tier.
type Cache struct {
	remote      Remote
	memory      *lru.Cache[string, entry]
	defaultTTL  time.Duration
	volatileTTL time.Duration
	logger      observe.Logger
	sink        cache.MetricsSink

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
	errs   atomic.Int64

	sweepMu   sync.Mutex
	sweepStop chan struct{}
	sweepDone chan struct{}
}

// New creates a span cache. Only Config.Remote changes behavior
// structurally; everything else has a default.
func New(cfg Config) (*Cache, error) {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.VolatileTTL <= 0 {
		cfg.VolatileTTL = DefaultVolatileTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.Nop()
	}
	if cfg.Sink == nil {
		cfg.Sink = cache.NopSink{}
	}

	memory, err := lru.New[string, entry](cfg.MaxEntries)
	if err != nil {
		return nil, err
	}

	return &Cache{
		remote:      cfg.Remote,
		memory:      memory,
		defaultTTL:  cfg.DefaultTTL,
		volatileTTL: cfg.VolatileTTL,
		logger:      cfg.Logger,
		sink:        cfg.Sink,
	}, nil
}

// SetOption modifies a single Set call.
type SetOption func(*setOptions)

type setOptions struct {
	volatile bool
}

// Volatile selects the short TTL class for entries expected to be
// superseded soon.
func Volatile() SetOption {
	return func(o *setOptions) {
		o.volatile = true
	}
}

// Set caches a labeling result for (text, policy, version). The remote
// tier is written when configured; the memory mirror is always
// written, so a remote outage degrades rather than disables caching.
// Returns an error only when no key or payload can be derived.
func (c *Cache) Set(ctx context.Context, text string, policy any, version string, value any, opts ...SetOption) error {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	key, err := Key(text, policy, version)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	ttl := c.defaultTTL
	if o.volatile {
		ttl = c.volatileTTL
	}

	if c.remote != nil {
		if err := c.remote.Set(ctx, key, data, ttl); err != nil {
			c.errs.Add(1)
			c.logger.Warn(ctx, "remote set failed, memory tier only",
				observe.Field{Key: "key", Value: key},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}

	c.memory.Add(key, entry{data: data, expiresAt: time.Now().Add(ttl)})
	c.sets.Add(1)
	return nil
}

// Get loads the cached result for (text, policy, version) into out.
// The remote tier is consulted first, then the memory mirror. A
// malformed cached payload counts as a miss, never an error.
func (c *Cache) Get(ctx context.Context, text string, policy any, version string, out any) (bool, error) {
	key, err := Key(text, policy, version)
	if err != nil {
		return false, err
	}

	if c.remote != nil {
		data, ok, err := c.remote.Get(ctx, key)
		switch {
		case err != nil:
			c.errs.Add(1)
			c.logger.Warn(ctx, "remote get failed, falling back to memory",
				observe.Field{Key: "key", Value: key},
				observe.Field{Key: "error", Value: err.Error()},
			)
		case ok:
			if json.Unmarshal(data, out) == nil {
				c.recordHit()
				return true, nil
			}
			c.logger.Warn(ctx, "malformed remote payload treated as miss",
				observe.Field{Key: "key", Value: key},
			)
		}
	}

	if e, ok := c.memory.Get(key); ok {
		if time.Now().After(e.expiresAt) {
			c.memory.Remove(key)
		} else if json.Unmarshal(e.data, out) == nil {
			c.recordHit()
			return true, nil
		} else {
			c.memory.Remove(key)
		}
	}

	c.recordMiss()
	return false, nil
}

// Invalidate removes every entry derived from the given text,
// whatever its policy and version, from both tiers. Returns the total
// number of keys removed across tiers.
func (c *Cache) Invalidate(ctx context.Context, text string) int {
	removed := 0

	if c.remote != nil {
		keys, err := c.remote.Keys(ctx, TextPattern(text))
		if err != nil {
			c.errs.Add(1)
			c.logger.Warn(ctx, "remote key scan failed",
				observe.Field{Key: "pattern", Value: TextPattern(text)},
				observe.Field{Key: "error", Value: err.Error()},
			)
		} else if len(keys) > 0 {
			n, err := c.remote.Delete(ctx, keys...)
			if err != nil {
				c.errs.Add(1)
				c.logger.Warn(ctx, "remote delete failed",
					observe.Field{Key: "error", Value: err.Error()},
				)
			} else {
				removed += n
			}
		}
	}

	prefix := textPrefix(text)
	for _, key := range c.memory.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.memory.Remove(key)
			removed++
		}
	}

	return removed
}

// InvalidateExact removes the single entry for (text, policy, version)
// from both tiers and returns the total removed.
func (c *Cache) InvalidateExact(ctx context.Context, text string, policy any, version string) (int, error) {
	key, err := Key(text, policy, version)
	if err != nil {
		return 0, err
	}

	removed := 0
	if c.remote != nil {
		n, err := c.remote.Delete(ctx, key)
		if err != nil {
			c.errs.Add(1)
			c.logger.Warn(ctx, "remote delete failed",
				observe.Field{Key: "key", Value: key},
				observe.Field{Key: "error", Value: err.Error()},
			)
		} else {
			removed += n
		}
	}
	if c.memory.Remove(key) {
		removed++
	}

	return removed, nil
}

// Flush clears both tiers. A remote flush failure is downgraded; the
// memory tier is always cleared.
func (c *Cache) Flush(ctx context.Context) {
	if c.remote != nil {
		if err := c.remote.Flush(ctx); err != nil {
			c.errs.Add(1)
			c.logger.Warn(ctx, "remote flush failed",
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}
	c.memory.Purge()
}

// StartSweeper begins periodically removing expired entries from the
// memory mirror. Starting an already-running sweeper is a no-op, so a
// second call never creates a duplicate timer.
func (c *Cache) StartSweeper(interval time.Duration) {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	if c.sweepStop != nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	c.sweepStop = stop
	c.sweepDone = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// StopSweeper stops the sweeper and waits for it to exit. Safe to call
// without a running sweeper.
func (c *Cache) StopSweeper() {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	if c.sweepStop == nil {
		return
	}
	close(c.sweepStop)
	<-c.sweepDone
	c.sweepStop = nil
	c.sweepDone = nil
}

// Close stops background work. The remote client is owned by the
// caller and stays open.
func (c *Cache) Close() {
	c.StopSweeper()
}

func (c *Cache) sweep() {
	now := time.Now()
	for _, key := range c.memory.Keys() {
		if e, ok := c.memory.Peek(key); ok && now.After(e.expiresAt) {
			c.memory.Remove(key)
		}
	}
}

// Stats returns a snapshot of counters and tier state. RemoteConnected
// reflects a live connectivity probe when a remote is configured.
func (c *Cache) Stats(ctx context.Context) Stats {
	return Stats{
		Hits:            c.hits.Load(),
		Misses:          c.misses.Load(),
		Sets:            c.sets.Load(),
		Errors:          c.errs.Load(),
		Size:            c.memory.Len(),
		RemoteConnected: c.remote != nil && c.remote.Connected(ctx),
	}
}

func (c *Cache) recordHit() {
	c.hits.Add(1)
	c.sink.RecordCacheHit(CacheType)
	c.updateRate()
}

func (c *Cache) recordMiss() {
	c.misses.Add(1)
	c.sink.RecordCacheMiss(CacheType)
	c.updateRate()
}

func (c *Cache) updateRate() {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return
	}
	c.sink.UpdateCacheHitRate(CacheType, float64(hits)/float64(total)*100)
}
