package scoring

import (
	"math"
	"time"
)

// SpeedCategory classifies a reading speed expressed in words per minute.
type SpeedCategory string

const (
	SpeedVerySlow   SpeedCategory = "very_slow"
	SpeedSlow       SpeedCategory = "slow"
	SpeedNormal     SpeedCategory = "normal"
	SpeedFast       SpeedCategory = "fast"
	SpeedVeryFast   SpeedCategory = "very_fast"
	SpeedSuspicious SpeedCategory = "suspicious"

	// SpeedUnknown is returned when no band matches. The bands span
	// [0, ∞), so this is only reachable for negative input.
	SpeedUnknown SpeedCategory = "unknown"
)

// IsValid reports whether c is a recognised speed category.
func (c SpeedCategory) IsValid() bool {
	switch c {
	case SpeedVerySlow, SpeedSlow, SpeedNormal, SpeedFast, SpeedVeryFast, SpeedSuspicious, SpeedUnknown:
		return true
	}
	return false
}

// speedBands maps each category to its half-open [Low, High) WPM interval.
// Bands are ordered ascending; the first matching interval wins.
var speedBands = []struct {
	Category  SpeedCategory
	Low, High float64
}{
	{SpeedVerySlow, 0, 60},
	{SpeedSlow, 60, 100},
	{SpeedNormal, 100, 160},
	{SpeedFast, 160, 200},
	{SpeedVeryFast, 200, 250},
	{SpeedSuspicious, 250, math.Inf(1)},
}

// Accuracy is the share of candidate tokens that found a match, as a
// percentage capped at 100. A zero candidate count yields 0.
func Accuracy(matched, totalCandidate int) float64 {
	if totalCandidate == 0 {
		return 0
	}
	return math.Min(100, float64(matched)/float64(totalCandidate)*100)
}

// Completeness is the share of the reference text covered by matches, as a
// percentage capped at 100. A zero reference count yields 0.
func Completeness(matched, totalReference int) float64 {
	if totalReference == 0 {
		return 0
	}
	return math.Min(100, float64(matched)/float64(totalReference)*100)
}

// Fluency converts a spoken word count and the elapsed audio duration into
// words per minute. Non-positive durations yield 0.
func Fluency(wordCount int, duration time.Duration) float64 {
	secs := duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(wordCount) / secs * 60
}

// CategorizeSpeed maps a words-per-minute value onto the fixed band table.
func CategorizeSpeed(wpm float64) SpeedCategory {
	for _, band := range speedBands {
		if wpm >= band.Low && wpm < band.High {
			return band.Category
		}
	}
	return SpeedUnknown
}
