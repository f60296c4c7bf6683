package cache

import (
	"fmt"

	"github.com/jonwraymond/promptcache/canonical"
)

// SemanticKeyer derives near-duplicate-tolerant cache keys. It is
// implemented by semantic.Enhancer.
//
// Contract:
// - Determinism: same inputs must produce same key.
// - Concurrency: implementations must be safe for concurrent use.
type SemanticKeyer interface {
	// Key generates a semantic cache key for the namespace and payload.
	Key(namespace string, payload any) (string, error)
}

// Generator derives deterministic cache keys from structured payloads.
//
// The payload is canonicalized (object keys sorted at every nesting
// level, array order preserved) and hashed with SHA-256; the first 16
// hex characters form the fingerprint. The namespace is prepended
// verbatim, including when empty:
//
//	<namespace>:<fingerprint>
type Generator struct {
	semantic SemanticKeyer
}

// NewGenerator creates a key generator without semantic support.
// Requesting a semantic key from it returns ErrNoSemanticKeyer.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewGeneratorWithSemantic creates a key generator that delegates to
// the given semantic keyer when a semantic key is requested.
func NewGeneratorWithSemantic(s SemanticKeyer) *Generator {
	return &Generator{semantic: s}
}

type keyOptions struct {
	useSemantic bool
}

// KeyOption configures key generation.
type KeyOption func(*keyOptions)

// WithSemantic requests semantic key derivation. The generator
// delegates entirely to its configured SemanticKeyer; enhancer errors
// propagate to the caller, who decides whether to fall back to a
// standard key.
func WithSemantic() KeyOption {
	return func(o *keyOptions) { o.useSemantic = true }
}

// Key generates a deterministic cache key for the namespace and
// payload. Payload errors are cyclic references (canonical.ErrCycle)
// and non-finite floats (canonical.ErrNonFinite); all
// JSON-representable payloads succeed, with nil and missing fields
// canonicalizing to null.
func (g *Generator) Key(namespace string, payload any, opts ...KeyOption) (string, error) {
	var o keyOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.useSemantic {
		if g.semantic == nil {
			return "", ErrNoSemanticKeyer
		}
		return g.semantic.Key(namespace, payload)
	}

	fp, err := canonical.FingerprintAny(payload)
	if err != nil {
		return "", fmt.Errorf("cache: canonicalize payload: %w", err)
	}

	return namespace + ":" + fp, nil
}
