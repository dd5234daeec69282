package scoring

import "github.com/antzucaro/matchr"

// Ratio returns the symmetric character-level similarity between two words
// as a percentage in [0, 100].
//
// It is the indel ratio: 200·lcs(a, b) / (len(a) + len(b)), where lcs is
// the longest-common-subsequence length over runes. The measure is
// symmetric, 100 for identical strings (including two empty strings), and
// 0 when the strings share no characters.
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcsRunes(ar, br)) / float64(total)
}

// EditDistance returns the Levenshtein distance between two words: the
// number of single-rune insertions, deletions, and substitutions required
// to transform a into b. Useful for diagnosing how far a fuzzy-matched
// word was from the reference.
func EditDistance(a, b string) int {
	return matchr.Levenshtein(a, b)
}

// lcsRunes computes the longest-common-subsequence length of two rune
// slices using a single-row dynamic-programming table.
func lcsRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dp := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0 // dp[i-1][j-1]
		for j := 1; j <= len(b); j++ {
			cur := dp[j]
			switch {
			case a[i-1] == b[j-1]:
				dp[j] = prev + 1
			case dp[j-1] > dp[j]:
				dp[j] = dp[j-1]
			}
			prev = cur
		}
	}
	return dp[len(b)]
}
