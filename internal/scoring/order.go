package scoring

// OrderAccuracy measures how well the candidate preserved the word order
// of the reference, as a percentage in [0, 100]. It is the token-level
// longest-common-subsequence length scaled by the shorter sequence:
//
//	lcs(candidate, reference) / min(len(candidate), len(reference)) · 100
//
// Token comparison is exact; fuzzy similarity plays no role here. A
// candidate can therefore score high word accuracy but low order accuracy
// when words are transposed. Returns 0 when either sequence is empty.
func OrderAccuracy(candidate, reference []string) float64 {
	if len(candidate) == 0 || len(reference) == 0 {
		return 0
	}
	maxPossible := min(len(candidate), len(reference))
	return float64(lcsTokens(candidate, reference)) / float64(maxPossible) * 100
}

// lcsTokens computes the longest-common-subsequence length of two token
// sequences with the standard dynamic-programming recurrence over an
// (n+1)×(m+1) table.
func lcsTokens(a, b []string) int {
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}
	return dp[n][m]
}
