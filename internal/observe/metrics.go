// Package observe provides application-wide observability primitives for
// Readmark: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Readmark metrics.
const meterName = "github.com/readmark/readmark"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// TranscriptionDuration tracks speech-to-text transcription latency.
	TranscriptionDuration metric.Float64Histogram

	// EvaluationDuration tracks alignment and scoring latency.
	EvaluationDuration metric.Float64Histogram

	// --- Counters ---

	// Assessments counts completed assessments. Use with attributes:
	//   attribute.String("grade", ...), attribute.String("speed", ...)
	Assessments metric.Int64Counter

	// SuspiciousReadings counts assessments flagged for implausibly fast
	// reading speed.
	SuspiciousReadings metric.Int64Counter

	// --- Error counters ---

	// ASRErrors counts failed transcription requests. Use with attribute:
	//   attribute.String("provider", ...)
	ASRErrors metric.Int64Counter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// batch transcription and scoring latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.TranscriptionDuration, err = m.Float64Histogram("readmark.transcription.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.EvaluationDuration, err = m.Float64Histogram("readmark.evaluation.duration",
		metric.WithDescription("Latency of alignment and scoring."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Assessments, err = m.Int64Counter("readmark.assessments",
		metric.WithDescription("Total completed assessments by grade and speed category."),
	); err != nil {
		return nil, err
	}
	if met.SuspiciousReadings, err = m.Int64Counter("readmark.suspicious_readings",
		metric.WithDescription("Total assessments flagged for implausibly fast reading speed."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.ASRErrors, err = m.Int64Counter("readmark.asr.errors",
		metric.WithDescription("Total failed transcription requests by provider."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("readmark.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordAssessment is a convenience method that records a completed
// assessment with the standard attribute set.
func (m *Metrics) RecordAssessment(ctx context.Context, grade, speed string) {
	m.Assessments.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("grade", grade),
			attribute.String("speed", speed),
		),
	)
}

// RecordSuspiciousReading is a convenience method that records an assessment
// flagged as suspiciously fast.
func (m *Metrics) RecordSuspiciousReading(ctx context.Context) {
	m.SuspiciousReadings.Add(ctx, 1)
}

// RecordASRError is a convenience method that records a failed transcription
// request.
func (m *Metrics) RecordASRError(ctx context.Context, provider string) {
	m.ASRErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("provider", provider)),
	)
}
