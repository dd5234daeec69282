// Package scoring implements the reading-assessment engine: text
// normalisation, greedy token alignment with a fuzzy fallback, word-order
// scoring, performance metrics, and remark generation.
//
// The package is pure computation — no I/O, no retained state. An
// [Evaluator] is immutable after construction and safe for concurrent use;
// every call to [Evaluator.Evaluate] works on freshly allocated state, so
// concurrent evaluations never interfere.
package scoring

import (
	"strings"
	"unicode"
)

// Normalize canonicalises raw text for comparison:
//
//  1. Lowercase all characters.
//  2. Strip punctuation and symbols, keeping apostrophes so contractions
//     like "don't" survive as single tokens. Typographic apostrophes
//     (U+2019, U+02BC) are folded to the ASCII form, since chapter texts
//     authored in word processors use them interchangeably. Stripped
//     characters act as word boundaries ("well-known" becomes two tokens).
//  3. Collapse whitespace runs to a single space and trim both ends.
//
// Normalize is idempotent and returns "" for empty input.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		switch {
		case isApostrophe(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			pendingSpace = false
			b.WriteRune('\'')
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			pendingSpace = true
		default:
			if pendingSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			pendingSpace = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// isApostrophe reports whether r is an apostrophe form kept inside tokens.
func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == 'ʼ'
}

// Tokenize splits text on whitespace into word tokens, dropping empty
// fragments. Tokenize("") yields an empty sequence. Callers should pass
// text through [Normalize] first; Tokenize itself does no canonicalisation.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
