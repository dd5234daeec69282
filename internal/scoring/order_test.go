package scoring_test

import (
	"math"
	"testing"

	"github.com/readmark/readmark/internal/scoring"
)

func TestOrderAccuracy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		candidate, reference []string
		want                 float64
	}{
		{"identical", []string{"a", "b", "c"}, []string{"a", "b", "c"}, 100},
		{"transposed pair", []string{"b", "a"}, []string{"a", "b"}, 50},
		{"empty candidate", nil, []string{"a"}, 0},
		{"empty reference", []string{"a"}, nil, 0},
		{"subsequence", []string{"a", "c"}, []string{"a", "b", "c"}, 100},
		{"reversed", []string{"c", "b", "a"}, []string{"a", "b", "c"}, 100.0 / 3},
		{"no overlap", []string{"x", "y"}, []string{"a", "b"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := scoring.OrderAccuracy(tt.candidate, tt.reference)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("OrderAccuracy(%v, %v) = %v, want %v", tt.candidate, tt.reference, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("OrderAccuracy(%v, %v) = %v, out of [0, 100]", tt.candidate, tt.reference, got)
			}
		})
	}
}

// Multiset matching and order scoring diverge on transposed words: both
// words match, but only one preserves its relative position.
func TestOrderVsAccuracyDivergence(t *testing.T) {
	t.Parallel()

	candidate := []string{"b", "a"}
	reference := []string{"a", "b"}

	res := scoring.Align(candidate, reference, 80, true)
	if res.Matched != 2 {
		t.Errorf("Matched = %d, want 2", res.Matched)
	}
	if acc := scoring.Accuracy(res.Matched, res.TotalCandidate); acc != 100 {
		t.Errorf("Accuracy = %v, want 100", acc)
	}
	if ord := scoring.OrderAccuracy(candidate, reference); ord != 50 {
		t.Errorf("OrderAccuracy = %v, want 50", ord)
	}
}
