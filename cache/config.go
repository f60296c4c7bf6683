package cache

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// RedisConfig configures the Redis-backed store. Addr and Password
// support `${VAR}` environment references so credentials stay out of
// checked-in configuration.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	Addr string

	// Password is the optional Redis password.
	Password string

	// DB is the Redis database number.
	DB int

	// DialTimeout bounds connection establishment. Default: 5s.
	DialTimeout time.Duration

	// ReadTimeout and WriteTimeout bound individual round trips.
	// Default: 2s each.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxRetries is passed through to the client. Default: client default.
	MaxRetries int
}

// Resolve expands environment references in the string fields and
// applies timeout defaults. A `${VAR}` reference to a missing variable
// is an error; `$$` emits a literal `$`.
func (c RedisConfig) Resolve() (RedisConfig, error) {
	addr, err := expandEnvStrict(c.Addr)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("cache: redis addr: %w", err)
	}
	password, err := expandEnvStrict(c.Password)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("cache: redis password: %w", err)
	}

	c.Addr = addr
	c.Password = password
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 2 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 2 * time.Second
	}
	return c, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvStrict expands environment variables in s.
//
// Semantics:
//   - `$VAR` and `${VAR}` are expanded via os.ExpandEnv.
//   - If `${VAR}` is present but VAR is missing from the environment, it errors.
//   - `$$` emits a literal `$` (escape hatch).
func expandEnvStrict(s string) (string, error) {
	const dollarSentinel = "\x00PROMPTCACHE_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(s, -1) {
		key := match[1]
		if _, ok := os.LookupEnv(key); !ok {
			missing[key] = struct{}{}
		}
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("missing required environment variables: %s", strings.Join(keys, ", "))
	}

	s = os.ExpandEnv(s)
	s = strings.ReplaceAll(s, dollarSentinel, "$")
	return s, nil
}
