package semantic

import (
	"strings"
	"unicode"
)

// Tokenize splits free text into lowercase word tokens. Punctuation
// and whitespace are separators; the result carries no duplicates'
// ordering guarantees beyond first appearance.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// Similarity scores two free-text strings in [0, 1] as the Jaccard
// ratio of shared to total distinct tokens. Identical texts score 1,
// token-disjoint texts score 0, and near-duplicate phrasings score
// strictly above unrelated text. Two texts with no tokens at all are
// considered identical.
func Similarity(a, b string) float64 {
	ta := Tokenize(a)
	tb := Tokenize(b)

	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}

	shared := 0
	for _, t := range tb {
		if _, ok := set[t]; ok {
			shared++
		}
	}

	total := len(ta) + len(tb) - shared
	return float64(shared) / float64(total)
}
