// Package spancache caches span-labeling inference results in two
// tiers: a remote backend with native TTLs and a bounded in-process
// mirror. Entries are keyed by (text, policy, version); the text hash
// gets its own key segment so all results for a text can be
// invalidated with one pattern.
//
// The remote tier is optional. Without it the cache runs memory-only;
// with it, every remote failure is caught, counted and downgraded to
// the memory tier, so a backend outage costs recomputation, never a
// request failure.
package spancache
