package scoring

import "strings"

// Remark strings are fixed so that assessment output is reproducible.
const (
	remarkSuspicious = "Warning: Reading speed is unusually fast. This may indicate the audio was played back at increased speed."

	remarkAccuracyExcellent = "Excellent accuracy! Words are pronounced correctly."
	remarkAccuracyGood      = "Good reading performance."
	remarkAccuracyAverage   = "Average performance. Practice pronunciation."
	remarkAccuracyWeak      = "Needs improvement. Focus on reading clearly."
	remarkAccuracyPoor      = "Significant improvement needed. Practice reading aloud."

	remarkCoveragePartial = "Only partial text was read."
	remarkCoverageMost    = "Most of the text was covered."
	remarkCoverageGood    = "Good coverage of the reference text."
)

// speedRemarks maps each speed category to its feedback line. The
// suspicious category contributes nothing here — its warning is emitted
// separately, ahead of every other remark.
var speedRemarks = map[SpeedCategory]string{
	SpeedVerySlow: "Reading pace is slow. Try to read more fluently.",
	SpeedSlow:     "Reading pace is slightly slow.",
	SpeedNormal:   "Reading pace is appropriate.",
	SpeedFast:     "Good fluent reading pace!",
	SpeedVeryFast: "Very fast reading. Ensure clarity isn't sacrificed for speed.",
}

// Remarks assembles the human-readable feedback for one evaluation. Parts
// are emitted in a fixed order — suspicious warning, accuracy band,
// completeness band, speed remark — and joined with single spaces.
func Remarks(accuracy, completeness float64, speed SpeedCategory, suspicious bool) string {
	parts := make([]string, 0, 4)

	if suspicious {
		parts = append(parts, remarkSuspicious)
	}

	switch {
	case accuracy >= 90:
		parts = append(parts, remarkAccuracyExcellent)
	case accuracy >= 75:
		parts = append(parts, remarkAccuracyGood)
	case accuracy >= 60:
		parts = append(parts, remarkAccuracyAverage)
	case accuracy >= 40:
		parts = append(parts, remarkAccuracyWeak)
	default:
		parts = append(parts, remarkAccuracyPoor)
	}

	switch {
	case completeness < 50:
		parts = append(parts, remarkCoveragePartial)
	case completeness < 80:
		parts = append(parts, remarkCoverageMost)
	default:
		parts = append(parts, remarkCoverageGood)
	}

	if r, ok := speedRemarks[speed]; ok {
		parts = append(parts, r)
	}

	return strings.Join(parts, " ")
}

// Grade condenses accuracy and completeness into a letter grade. The
// weighted score 0.6·accuracy + 0.4·completeness is banded at 90/80/70/60
// into A/B/C/D, with F below.
func Grade(accuracy, completeness float64) string {
	score := accuracy*0.6 + completeness*0.4
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
