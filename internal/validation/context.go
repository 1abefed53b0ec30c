package validation

import "context"

type ctxKey Source

// WithValue stores the validated value of source in ctx.
func WithValue(ctx context.Context, source Source, value map[string]any) context.Context {
	return context.WithValue(ctx, ctxKey(source.normalize()), value)
}

// Value returns the validated value the Gate stored for source, or nil.
func Value(ctx context.Context, source Source) map[string]any {
	v, _ := ctx.Value(ctxKey(source.normalize())).(map[string]any)
	return v
}
