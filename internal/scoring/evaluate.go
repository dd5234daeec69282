package scoring

import "time"

const (
	// DefaultFuzzyThreshold is the minimum similarity ratio (0–100) at
	// which a fuzzy match is accepted.
	DefaultFuzzyThreshold = 80

	// DefaultSuspiciousWPM is the reading speed above which an assessment
	// is flagged as a possible playback or text-to-speech artefact. Normal
	// adult read-aloud speed sits well below this.
	DefaultSuspiciousWPM = 250.0
)

// Option is a functional option for configuring an [Evaluator].
type Option func(*Evaluator)

// WithFuzzyThreshold sets the minimum similarity ratio (0–100) for fuzzy
// matches. Default: 80.
func WithFuzzyThreshold(threshold int) Option {
	return func(e *Evaluator) {
		e.fuzzyThreshold = threshold
	}
}

// WithSuspiciousWPM sets the words-per-minute value above which a reading
// is flagged as suspicious. Default: 250.
func WithSuspiciousWPM(wpm float64) Option {
	return func(e *Evaluator) {
		e.suspiciousWPM = wpm
	}
}

// WithoutFuzzyMatching disables the approximate-matching fallback; only
// exact token matches count towards the score.
func WithoutFuzzyMatching() Option {
	return func(e *Evaluator) {
		e.useFuzzy = false
	}
}

// Evaluator scores a candidate reading transcript against a reference
// text. It is immutable after construction and may be shared by reference
// across concurrent callers.
type Evaluator struct {
	fuzzyThreshold int
	useFuzzy       bool
	suspiciousWPM  float64
}

// NewEvaluator returns an [Evaluator] configured with the supplied options.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		fuzzyThreshold: DefaultFuzzyThreshold,
		useFuzzy:       true,
		suspiciousWPM:  DefaultSuspiciousWPM,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Report bundles the alignment outcome and every derived metric for one
// evaluation.
type Report struct {
	// Alignment is the full greedy matching outcome.
	Alignment AlignmentResult

	// Accuracy, Completeness, and OrderAccuracy are percentages in [0, 100].
	Accuracy      float64
	Completeness  float64
	OrderAccuracy float64

	// FluencyWPM is the reading speed in words per minute; never negative.
	FluencyWPM float64

	// Suspicious is set when FluencyWPM exceeds the configured threshold.
	Suspicious bool

	// Speed is the categorical reading-speed band.
	Speed SpeedCategory

	// Remarks is the assembled human-readable feedback.
	Remarks string

	// Grade is the letter grade A–F.
	Grade string
}

// Evaluate runs the full assessment over raw candidate and reference text:
// normalisation, tokenisation, greedy alignment, order scoring, metric
// derivation, and remark generation.
//
// audioDuration is the elapsed recording time. wordCount is the number of
// words the student spoke — typically the candidate token count, but
// callers may supply a count from another source such as the recogniser.
// Malformed-but-well-typed input degrades to zero-valued metrics; Evaluate
// never fails.
func (e *Evaluator) Evaluate(candidateText, referenceText string, audioDuration time.Duration, wordCount int) *Report {
	candidate := Tokenize(Normalize(candidateText))
	reference := Tokenize(Normalize(referenceText))

	alignment := Align(candidate, reference, e.fuzzyThreshold, e.useFuzzy)

	accuracy := Accuracy(alignment.Matched, alignment.TotalCandidate)
	completeness := Completeness(alignment.Matched, alignment.TotalReference)
	wpm := Fluency(wordCount, audioDuration)
	speed := CategorizeSpeed(wpm)
	suspicious := wpm > e.suspiciousWPM

	return &Report{
		Alignment:     alignment,
		Accuracy:      accuracy,
		Completeness:  completeness,
		OrderAccuracy: OrderAccuracy(candidate, reference),
		FluencyWPM:    wpm,
		Suspicious:    suspicious,
		Speed:         speed,
		Remarks:       Remarks(accuracy, completeness, speed, suspicious),
		Grade:         Grade(accuracy, completeness),
	}
}
