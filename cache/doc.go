// Package cache provides deterministic, TTL-based caching for
// expensive prompt-service calls.
//
// It provides a Store interface with bounded in-memory and Redis
// implementations, SHA-256-based key derivation over canonical
// payloads, hit/miss statistics with an optional metrics sink, and an
// Instrumented decorator composing the three behind one API.
package cache
