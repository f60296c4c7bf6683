package semantic

import (
	"strings"

	"github.com/jonwraymond/promptcache/canonical"
)

// Options controls payload normalization before fingerprinting. The
// zero value disables everything; use DefaultOptions for the standard
// behavior.
type Options struct {
	// NormalizeWhitespace collapses whitespace runs in string leaves to
	// a single space and trims the ends.
	NormalizeWhitespace bool

	// IgnoreCase lowercases string leaves.
	IgnoreCase bool

	// SortKeys sorts map keys at every nesting level. When false,
	// payloads built as canonical.Value keep their construction order;
	// plain Go maps have no order to preserve and are sorted anyway.
	SortKeys bool
}

// DefaultOptions enables all normalizations.
func DefaultOptions() Options {
	return Options{
		NormalizeWhitespace: true,
		IgnoreCase:          true,
		SortKeys:            true,
	}
}

// Enhancer derives semantic cache keys: payloads differing only in
// whitespace or letter case map to the same key.
type Enhancer struct {
	opts Options
}

// NewEnhancer creates an enhancer with default options.
func NewEnhancer() *Enhancer {
	return &Enhancer{opts: DefaultOptions()}
}

// NewEnhancerWithOptions creates an enhancer with explicit options.
func NewEnhancerWithOptions(opts Options) *Enhancer {
	return &Enhancer{opts: opts}
}

// Key derives a semantic cache key for the payload. Format:
// <namespace>:semantic:<16-hex>. Cyclic payloads return
// canonical.ErrCycle.
func (e *Enhancer) Key(namespace string, payload any) (string, error) {
	v, err := canonical.FromAny(payload)
	if err != nil {
		return "", err
	}

	v = v.TransformStrings(e.normalize)
	if e.opts.SortKeys {
		v = v.Sorted()
	}

	return namespace + ":semantic:" + canonical.Fingerprint(v), nil
}

func (e *Enhancer) normalize(s string) string {
	if e.opts.NormalizeWhitespace {
		s = strings.Join(strings.Fields(s), " ")
	}
	if e.opts.IgnoreCase {
		s = strings.ToLower(s)
	}
	return s
}
