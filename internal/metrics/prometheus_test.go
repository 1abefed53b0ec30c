package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordersAreNoopsBeforeInit(t *testing.T) {
	prev := promMetrics
	promMetrics = nil
	defer func() { promMetrics = prev }()

	RecordCacheLookup(CacheHit)
	RecordCacheWrite(false)
	RecordValidationFailure("body")
	ObserveHTTPRequest("GET", "/api/clientes", 200, time.Millisecond)
	IncActiveRequests()
	DecActiveRequests()

	rec := httptest.NewRecorder()
	PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before init, got %d", rec.Code)
	}
}

func TestPrometheusCounters(t *testing.T) {
	prev := promMetrics
	defer func() { promMetrics = prev }()

	InitPrometheus("edda_test", nil)

	RecordCacheLookup(CacheHit)
	RecordCacheLookup(CacheHit)
	RecordCacheLookup(CacheMiss)
	RecordCacheWrite(true)
	RecordValidationFailure("query")

	if got := testutil.ToFloat64(promMetrics.cacheLookups.WithLabelValues(CacheHit)); got != 2 {
		t.Fatalf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(promMetrics.cacheLookups.WithLabelValues(CacheMiss)); got != 1 {
		t.Fatalf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(promMetrics.validationFailures.WithLabelValues("query")); got != 1 {
		t.Fatalf("validation failures = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "edda_test_response_cache_writes_total") {
		t.Fatalf("scrape output missing cache write counter")
	}
}
