package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on conversion spans. Custom keys use the "symc.*"
// namespace.
const (
	AttrExpression   = "symc.expression"
	AttrSource       = "symc.source"
	AttrRunID        = "symc.run_id"
	AttrTreeNodes    = "symc.tree.nodes"
	AttrTreeDepth    = "symc.tree.depth"
	AttrPass         = "symc.transform.pass"
	AttrReplacements = "symc.transform.replacements"
	AttrOutputLength = "symc.output.length"
	AttrCacheHit     = "symc.cache.hit"
	AttrErrorType    = "symc.error.type"
)

// maxExpressionAttr bounds the expression text attached to spans.
const maxExpressionAttr = 256

// SetExpressionAttributes records the input expression and where it came from.
func SetExpressionAttributes(span trace.Span, expression, source string) {
	if len(expression) > maxExpressionAttr {
		expression = expression[:maxExpressionAttr] + "..."
	}
	attrs := []attribute.KeyValue{attribute.String(AttrExpression, expression)}
	if source != "" {
		attrs = append(attrs, attribute.String(AttrSource, source))
	}
	span.SetAttributes(attrs...)
}

// SetTreeAttributes records the size of a parsed tree.
func SetTreeAttributes(span trace.Span, nodes, depth int) {
	span.SetAttributes(
		attribute.Int(AttrTreeNodes, nodes),
		attribute.Int(AttrTreeDepth, depth),
	)
}

// AddPassEvent records the outcome of one transform pass as a span event.
func AddPassEvent(span trace.Span, pass string, replacements int) {
	span.AddEvent("transform.pass", trace.WithAttributes(
		attribute.String(AttrPass, pass),
		attribute.Int(AttrReplacements, replacements),
	))
}

// SetCacheAttributes records whether the conversion was served from cache.
func SetCacheAttributes(span trace.Span, hit bool) {
	span.SetAttributes(attribute.Bool(AttrCacheHit, hit))
}

// SetErrorAttributes records err with its classification and marks the
// span failed.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	if errorType != "" {
		span.SetAttributes(attribute.String(AttrErrorType, errorType))
	}
	SetError(span, err)
	SetStatus(span, err)
}
