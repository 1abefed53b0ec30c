package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes recorded by RecordCacheLookup.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheError  = "error"
	CacheBypass = "bypass"
)

// PrometheusMetrics wraps prometheus collectors for the EDDA API
type PrometheusMetrics struct {
	registry *prometheus.Registry

	cacheLookups       *prometheus.CounterVec
	cacheWrites        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	activeRequests     prometheus.Gauge

	handler http.Handler
}

// Default histogram buckets for request duration (in milliseconds)
var defaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

var promMetrics *PrometheusMetrics

// InitPrometheus initializes the Prometheus metrics subsystem
func InitPrometheus(namespace string, buckets []float64) {
	if len(buckets) == 0 {
		buckets = defaultBuckets
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pm := &PrometheusMetrics{
		registry: registry,

		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "response_cache_lookups_total",
				Help:      "Response cache lookups by outcome",
			},
			[]string{"result"},
		),

		cacheWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "response_cache_writes_total",
				Help:      "Asynchronous response cache writes by status",
			},
			[]string{"status"},
		),

		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Requests rejected by the schema validation gate",
			},
			[]string{"source"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_milliseconds",
				Help:      "Duration of HTTP requests in milliseconds",
				Buckets:   buckets,
			},
			[]string{"method", "route", "status"},
		),

		activeRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_requests",
				Help:      "Number of in-flight HTTP requests",
			},
		),
	}

	registry.MustRegister(
		pm.cacheLookups,
		pm.cacheWrites,
		pm.validationFailures,
		pm.httpDuration,
		pm.activeRequests,
	)

	pm.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	promMetrics = pm
}

// RecordCacheLookup counts a response cache lookup outcome
func RecordCacheLookup(result string) {
	if promMetrics == nil {
		return
	}
	promMetrics.cacheLookups.WithLabelValues(result).Inc()
}

// RecordCacheWrite counts a background cache write
func RecordCacheWrite(success bool) {
	if promMetrics == nil {
		return
	}
	status := "ok"
	if !success {
		status = "error"
	}
	promMetrics.cacheWrites.WithLabelValues(status).Inc()
}

// RecordValidationFailure counts a request rejected by the validation gate
func RecordValidationFailure(source string) {
	if promMetrics == nil {
		return
	}
	promMetrics.validationFailures.WithLabelValues(source).Inc()
}

// ObserveHTTPRequest records the duration of a completed request
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if promMetrics == nil {
		return
	}
	promMetrics.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).
		Observe(float64(d.Microseconds()) / 1000)
}

// IncActiveRequests increments the active requests gauge
func IncActiveRequests() {
	if promMetrics == nil {
		return
	}
	promMetrics.activeRequests.Inc()
}

// DecActiveRequests decrements the active requests gauge
func DecActiveRequests() {
	if promMetrics == nil {
		return
	}
	promMetrics.activeRequests.Dec()
}

// PrometheusHandler serves the scrape endpoint. It answers 404 until
// InitPrometheus has run, so it can be mounted before metrics are enabled.
func PrometheusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pm := promMetrics
		if pm == nil {
			http.NotFound(w, r)
			return
		}
		pm.handler.ServeHTTP(w, r)
	})
}

// PrometheusRegistry exposes the registry, mainly for tests
func PrometheusRegistry() *prometheus.Registry {
	if promMetrics == nil {
		return nil
	}
	return promMetrics.registry
}
