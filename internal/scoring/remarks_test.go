package scoring_test

import (
	"strings"
	"testing"

	"github.com/readmark/readmark/internal/scoring"
)

func TestRemarksOrdering(t *testing.T) {
	t.Parallel()

	got := scoring.Remarks(95, 90, scoring.SpeedSuspicious, true)

	if !strings.HasPrefix(got, "Warning:") {
		t.Errorf("suspicious warning must come first, got %q", got)
	}
	if !strings.Contains(got, "Excellent accuracy") {
		t.Errorf("missing accuracy remark in %q", got)
	}
	if !strings.Contains(got, "Good coverage") {
		t.Errorf("missing coverage remark in %q", got)
	}
	// The suspicious category contributes no pace remark beyond the warning.
	if strings.Contains(got, "pace") {
		t.Errorf("suspicious speed must not add a pace remark, got %q", got)
	}
}

func TestRemarksBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		accuracy     float64
		completeness float64
		speed        scoring.SpeedCategory
		wantPart     string
	}{
		{"excellent accuracy", 92, 85, scoring.SpeedNormal, "Excellent accuracy"},
		{"good accuracy", 80, 85, scoring.SpeedNormal, "Good reading performance"},
		{"average accuracy", 65, 85, scoring.SpeedNormal, "Average performance"},
		{"weak accuracy", 45, 85, scoring.SpeedNormal, "Needs improvement"},
		{"poor accuracy", 20, 85, scoring.SpeedNormal, "Significant improvement needed"},
		{"partial coverage", 92, 30, scoring.SpeedNormal, "Only partial text was read"},
		{"most covered", 92, 70, scoring.SpeedNormal, "Most of the text was covered"},
		{"slow pace", 92, 85, scoring.SpeedVerySlow, "Reading pace is slow"},
		{"normal pace", 92, 85, scoring.SpeedNormal, "Reading pace is appropriate"},
		{"very fast pace", 92, 85, scoring.SpeedVeryFast, "Very fast reading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := scoring.Remarks(tt.accuracy, tt.completeness, tt.speed, false)
			if !strings.Contains(got, tt.wantPart) {
				t.Errorf("Remarks(%v, %v, %q, false) = %q, want it to contain %q",
					tt.accuracy, tt.completeness, tt.speed, got, tt.wantPart)
			}
			if strings.Contains(got, "Warning:") {
				t.Errorf("non-suspicious remarks must not contain the warning, got %q", got)
			}
		})
	}
}

func TestGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		accuracy     float64
		completeness float64
		want         string
	}{
		{"straight A", 100, 100, "A"},
		{"boundary A", 90, 90, "A"},
		{"weighted B", 90, 70, "B"}, // 0.6·90 + 0.4·70 = 82
		{"boundary C", 70, 70, "C"},
		{"boundary D", 60, 60, "D"},
		{"fail", 50, 40, "F"},
		{"zero", 0, 0, "F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := scoring.Grade(tt.accuracy, tt.completeness); got != tt.want {
				t.Errorf("Grade(%v, %v) = %q, want %q", tt.accuracy, tt.completeness, got, tt.want)
			}
		})
	}
}
