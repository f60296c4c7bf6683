package spancache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/jonwraymond/promptcache/canonical"
)

// Namespace prefixes every span-labeling cache key.
const Namespace = "spanlabel"

// Key derives the cache key for a (text, policy, version) tuple.
// Format: spanlabel:<16-hex(text)>:<16-hex(canonical{policy,version})>.
// A nil policy and empty version are valid and canonicalize to null
// and "". Cyclic policies return canonical.ErrCycle.
func Key(text string, policy any, version string) (string, error) {
	suffix, err := canonical.FingerprintAny(map[string]any{
		"policy":  policy,
		"version": version,
	})
	if err != nil {
		return "", err
	}
	return Namespace + ":" + TextHash(text) + ":" + suffix, nil
}

// TextHash returns the 16-hex text segment of a span cache key. All
// keys for the same text share it, which is what text-only pattern
// invalidation matches on.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:canonical.FingerprintLen]
}

// TextPattern returns the glob pattern matching every key derived from
// the given text, regardless of policy and version.
func TextPattern(text string) string {
	return Namespace + ":" + TextHash(text) + ":*"
}

// textPrefix is the memory-tier counterpart of TextPattern.
func textPrefix(text string) string {
	return Namespace + ":" + TextHash(text) + ":"
}
