// Package semantic derives near-duplicate-tolerant cache keys and the
// heuristics built on top of them: text similarity scoring, cache
// health recommendations, warming plans and per-type cache configs.
//
// It has no storage role. The cache package consumes the Enhancer
// through its SemanticKeyer interface.
package semantic
