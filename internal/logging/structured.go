package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// InitStructured reconfigures the operational logger. format is "text"
// (default) or "json"; level is "debug", "info", "warn" or "error".
func InitStructured(format, level string) {
	initStructured(os.Stderr, format, level)
}

func initStructured(w io.Writer, format, level string) {
	SetLevelFromString(level)

	opts := &slog.HandlerOptions{
		Level:       logLevel,
		ReplaceAttr: shortDurations,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	opLogger.Store(slog.New(handler).With("service", "edda-api"))
}

// shortDurations prints time.Duration values as "12.5ms" in both handlers
// instead of nanosecond integers in JSON.
func shortDurations(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindDuration {
		return slog.String(a.Key, a.Value.Duration().Round(10*time.Microsecond).String())
	}
	return a
}

// FromContext returns the operational logger annotated with the trace and
// span ids of the span in ctx. Without a span it is Op().
func FromContext(ctx context.Context) *slog.Logger {
	l := opLogger.Load()
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return l
	}
	return l.With("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}
