// Package canonical provides a deterministic representation of
// structured cache payloads.
//
// Payloads are converted into a tagged-variant Value (string, number,
// bool, null, ordered list, ordered map) and encoded as canonical JSON
// with object keys sorted at every nesting level. Two payloads that
// are deep-equal under this model always encode to the same bytes, so
// fingerprints derived from them are stable across processes and map
// iteration orders.
package canonical
