package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for batch and watch run IDs.
	RunIDKey contextKey = "run_id"

	// ExpressionKey is the context key for the name of the expression being converted.
	ExpressionKey contextKey = "expression"

	// SourceKey is the context key for the file an expression came from.
	SourceKey contextKey = "source"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if v, ok := ctx.Value(RunIDKey).(string); ok {
		return v
	}
	return ""
}

// WithExpression adds an expression name to the context.
func WithExpression(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ExpressionKey, name)
}

// GetExpression retrieves the expression name from the context.
func GetExpression(ctx context.Context) string {
	if v, ok := ctx.Value(ExpressionKey).(string); ok {
		return v
	}
	return ""
}

// WithSource adds a source file path to the context.
func WithSource(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, SourceKey, path)
}

// GetSource retrieves the source file path from the context.
func GetSource(ctx context.Context) string {
	if v, ok := ctx.Value(SourceKey).(string); ok {
		return v
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(TraceIDKey).(string); ok {
		return v
	}
	return ""
}

// extractContextFields returns the non-empty context fields as slog args.
func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	if v := GetRunID(ctx); v != "" {
		fields = append(fields, string(RunIDKey), v)
	}
	if v := GetExpression(ctx); v != "" {
		fields = append(fields, string(ExpressionKey), v)
	}
	if v := GetSource(ctx); v != "" {
		fields = append(fields, string(SourceKey), v)
	}
	if v := GetTraceID(ctx); v != "" {
		fields = append(fields, string(TraceIDKey), v)
	}
	return fields
}
