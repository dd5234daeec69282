package observe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// testSetup creates metrics and tracing infrastructure for middleware tests.
func testSetup(t *testing.T) (*Metrics, *sdkmetric.ManualReader, *tracetest.InMemoryExporter) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	origTP := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(origTP) })

	return m, reader, exp
}

// okHandler stands in for an assessment route.
func okHandler(capture *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = CorrelationID(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/assess/audio", "/assess/audio"},
		{"/chapters", "/chapters"},
		{"/chapters/chapter_1", "/chapters/{id}"},
		{"/chapters/", "/chapters/"},
		{"/health", "/health"},
	}
	for _, tt := range tests {
		if got := routeLabel(tt.path); got != tt.want {
			t.Errorf("routeLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMiddleware_SetsCorrelationID(t *testing.T) {
	m, _, _ := testSetup(t)
	mw := Middleware(m)

	var cid string
	handler := mw(okHandler(&cid))

	req := httptest.NewRequest("POST", "/assess/audio", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if cid == "" {
		t.Error("middleware did not set correlation ID in context")
	}
	if len(cid) != 32 {
		t.Errorf("generated correlation ID length = %d, want 32", len(cid))
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != cid {
		t.Errorf("response X-Correlation-ID = %q, want %q", got, cid)
	}
}

func TestMiddleware_SpanUsesRouteNotChapterID(t *testing.T) {
	m, _, exp := testSetup(t)
	mw := Middleware(m)

	handler := mw(okHandler(nil))

	req := httptest.NewRequest("GET", "/chapters/chapter_42", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	spans := exp.GetSpans()
	if len(spans) == 0 {
		t.Fatal("middleware did not create a span")
	}
	if spans[0].Name != "HTTP GET /chapters/{id}" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "HTTP GET /chapters/{id}")
	}

	// The concrete path survives as an attribute.
	foundPath := false
	for _, a := range spans[0].Attributes {
		if string(a.Key) == "url.path" && a.Value.AsString() == "/chapters/chapter_42" {
			foundPath = true
		}
	}
	if !foundPath {
		t.Error("span missing url.path attribute with the concrete path")
	}
}

func TestMiddleware_RecordsDuration(t *testing.T) {
	m, reader, _ := testSetup(t)
	mw := Middleware(m)

	handler := mw(okHandler(nil))

	req := httptest.NewRequest("POST", "/assess/audio", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	met := findMetric(rm, "readmark.http.request.duration")
	if met == nil {
		t.Fatal("metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("metric is not a histogram")
	}
	if len(hist.DataPoints) == 0 {
		t.Fatal("no data points")
	}

	dp := hist.DataPoints[0]
	if dp.Count != 1 {
		t.Errorf("sample count = %d, want 1", dp.Count)
	}

	foundMethod, foundRoute := false, false
	for _, kv := range dp.Attributes.ToSlice() {
		if string(kv.Key) == "method" && kv.Value.AsString() == "POST" {
			foundMethod = true
		}
		if string(kv.Key) == "route" && kv.Value.AsString() == "/assess/audio" {
			foundRoute = true
		}
	}
	if !foundMethod {
		t.Error("missing method attribute")
	}
	if !foundRoute {
		t.Error("missing route attribute")
	}
}

func TestMiddleware_ChapterRequestsShareOneSeries(t *testing.T) {
	m, reader, _ := testSetup(t)
	mw := Middleware(m)

	handler := mw(okHandler(nil))
	for _, path := range []string{"/chapters/chapter_1", "/chapters/chapter_2", "/chapters/chapter_3"} {
		req := httptest.NewRequest("GET", path, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	met := findMetric(rm, "readmark.http.request.duration")
	if met == nil {
		t.Fatal("metric not found")
	}
	hist := met.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 {
		t.Fatalf("data points = %d, want 1 (chapter IDs must collapse into one route)", len(hist.DataPoints))
	}
	if hist.DataPoints[0].Count != 3 {
		t.Errorf("sample count = %d, want 3", hist.DataPoints[0].Count)
	}
}

func TestMiddleware_CapturesStatusCode(t *testing.T) {
	m, _, exp := testSetup(t)
	mw := Middleware(m)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("GET", "/chapters/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("response status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	spans := exp.GetSpans()
	if len(spans) == 0 {
		t.Fatal("no spans recorded")
	}
	found := false
	for _, a := range spans[0].Attributes {
		if string(a.Key) == "http.response.status_code" && a.Value.AsInt64() == 404 {
			found = true
		}
	}
	if !found {
		t.Error("span missing http.response.status_code attribute")
	}
}

func TestMiddleware_PropagatesW3CTraceContext(t *testing.T) {
	m, _, _ := testSetup(t)
	mw := Middleware(m)

	var cid string
	handler := mw(okHandler(&cid))

	// An upstream gateway already traced this assessment request.
	req := httptest.NewRequest("POST", "/assess/audio", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if cid != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("correlation ID = %q, want the upstream trace ID", cid)
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("response X-Correlation-ID = %q, want the upstream trace ID", got)
	}
}
