package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// FingerprintLen is the length of a fingerprint in hex characters.
// 16 hex characters (64 bits) keeps keys short while the birthday
// bound stays around 2^32 entries, far beyond any bounded cache.
const FingerprintLen = 16

// AppendJSON appends the canonical JSON encoding of the value to dst.
// Map members are emitted in stored order; FromAny and Sorted produce
// key-sorted members, so values built through them encode
// deterministically regardless of source map iteration order.
func (v Value) AppendJSON(dst []byte) []byte {
	switch v.kind {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		if v.boolean {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case KindNumber:
		return append(dst, v.number...)
	case KindString:
		b, _ := json.Marshal(v.str)
		return append(dst, b...)
	case KindList:
		dst = append(dst, '[')
		for i, e := range v.list {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = e.AppendJSON(dst)
		}
		return append(dst, ']')
	case KindMap:
		dst = append(dst, '{')
		for i, m := range v.members {
			if i > 0 {
				dst = append(dst, ',')
			}
			kb, _ := json.Marshal(m.Key)
			dst = append(dst, kb...)
			dst = append(dst, ':')
			dst = m.Value.AppendJSON(dst)
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

// MarshalJSON implements json.Marshaler with canonical output.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.AppendJSON(nil), nil
}

// Fingerprint returns the first FingerprintLen hex characters of the
// SHA-256 digest of the canonical encoding.
func Fingerprint(v Value) string {
	sum := sha256.Sum256(v.AppendJSON(nil))
	return hex.EncodeToString(sum[:])[:FingerprintLen]
}

// FingerprintAny canonicalizes a payload and fingerprints it in one
// step. Returns ErrCycle for cyclic payloads.
func FingerprintAny(payload any) (string, error) {
	v, err := FromAny(payload)
	if err != nil {
		return "", err
	}
	return Fingerprint(v), nil
}
