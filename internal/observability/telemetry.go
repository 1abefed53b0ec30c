// Package observability sets up OpenTelemetry tracing for the API.
package observability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	defaultServiceName = "edda-api"
	defaultEndpoint    = "localhost:4318"
	instrumentation    = "github.com/Richard-Sup-Dev/edda-sistema-sub002"
)

// Config holds telemetry configuration
type Config struct {
	Enabled     bool
	Exporter    string // otlp-http or noop
	Endpoint    string // host:port of the OTLP/HTTP collector
	ServiceName string
	SampleRate  float64 // 0.0 to 1.0, applied to root spans only
}

type provider struct {
	tp     *sdktrace.TracerProvider // nil when disabled
	tracer trace.Tracer
}

var current atomic.Pointer[provider]

func init() {
	current.Store(&provider{tracer: noop.NewTracerProvider().Tracer("")})
}

// Init installs the global tracer provider. With Enabled false every span
// is a no-op. The "noop" exporter samples and records spans but ships
// them nowhere, which keeps trace ids in logs without a collector.
func Init(ctx context.Context, cfg Config) error {
	if !cfg.Enabled {
		current.Store(&provider{tracer: noop.NewTracerProvider().Tracer("")})
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	}
	switch cfg.Exporter {
	case "otlp-http", "otlp", "":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultEndpoint
		}
		exp, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("create OTLP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	case "noop":
	default:
		return fmt.Errorf("unknown exporter: %s", cfg.Exporter)
	}

	install(sdktrace.NewTracerProvider(opts...))
	return nil
}

func sampler(rate float64) sdktrace.Sampler {
	if rate <= 0 || rate >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
}

func install(tp *sdktrace.TracerProvider) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	current.Store(&provider{tp: tp, tracer: tp.Tracer(instrumentation)})
}

// Shutdown flushes pending spans and reverts to the no-op tracer.
func Shutdown(ctx context.Context) error {
	p := current.Swap(&provider{tracer: noop.NewTracerProvider().Tracer("")})
	if p == nil || p.tp == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.tp.Shutdown(ctx)
}

// Tracer returns the active tracer.
func Tracer() trace.Tracer {
	return current.Load().tracer
}

// Enabled reports whether spans are being recorded.
func Enabled() bool {
	return current.Load().tp != nil
}
