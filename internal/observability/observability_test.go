package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	install(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { Shutdown(context.Background()) })
	return rec
}

func TestHTTPMiddleware_Disabled(t *testing.T) {
	if err := Init(context.Background(), Config{Enabled: false}); err != nil {
		t.Fatal(err)
	}

	var traceID string
	h := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID, _ = SpanIDs(r.Context())
		AddEvent(r.Context(), "cache.miss") // must not panic without a span
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clientes", nil))

	if traceID != "" {
		t.Fatalf("expected no trace id when disabled, got %q", traceID)
	}
}

func TestHTTPMiddleware_NamesSpanAfterRoute(t *testing.T) {
	spans := installRecorder(t)

	var traceID, spanID string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pecas/{id}", func(w http.ResponseWriter, r *http.Request) {
		traceID, spanID = SpanIDs(r.Context())
		AddEvent(r.Context(), "cache.hit", AttrCacheKey.String("k"))
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	HTTPMiddleware(mux).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pecas/7", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status not forwarded: %d", rec.Code)
	}
	if traceID == "" || spanID == "" {
		t.Fatal("expected span in request context")
	}

	ended := spans.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}
	s := ended[0]
	if s.Name() != "GET /api/pecas/{id}" {
		t.Fatalf("span name = %q", s.Name())
	}
	if len(s.Events()) != 1 || s.Events()[0].Name != "cache.hit" {
		t.Fatalf("events = %+v", s.Events())
	}
	found := false
	for _, kv := range s.Attributes() {
		if kv.Key == AttrCacheResult && kv.Value.AsString() == "HIT" {
			found = true
		}
	}
	if !found {
		t.Fatalf("cache result attribute missing: %v", s.Attributes())
	}
}

func TestEndSpan_RecordsError(t *testing.T) {
	spans := installRecorder(t)

	_, span := StartSpan(context.Background(), "store.dashboard")
	EndSpan(span, errors.New("boom"))

	ended := spans.Ended()
	if len(ended) != 1 || ended[0].Status().Description != "boom" {
		t.Fatalf("ended = %+v", ended)
	}
}

func TestInit_Noop(t *testing.T) {
	ctx := context.Background()
	if err := Init(ctx, Config{Enabled: true, Exporter: "noop", SampleRate: 1}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Shutdown(ctx)
	if !Enabled() {
		t.Fatal("expected tracing enabled")
	}
	ctx, span := StartSpan(ctx, "x")
	defer span.End()
	if id, _ := SpanIDs(ctx); id == "" {
		t.Fatal("noop exporter should still produce trace ids")
	}
}

func TestInit_UnknownExporter(t *testing.T) {
	err := Init(context.Background(), Config{Enabled: true, Exporter: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown exporter")
	}
}
