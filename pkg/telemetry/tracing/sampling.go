package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Span names opened by the conversion pipeline.
const (
	SpanBatch     = "expr.batch"
	SpanConvert   = "expr.convert"
	SpanParse     = "expr.parse"
	SpanTransform = "expr.transform"
	SpanGenerate  = "expr.generate"
)

// Sampler strategies for telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"

	// SamplerBatch traces every batch run in full and samples conversions
	// outside a batch at sample_ratio.
	SamplerBatch = "batch"
)

// Samplers lists the valid strategies.
func Samplers() []string {
	return []string{SamplerAlways, SamplerNever, SamplerRatio, SamplerBatch}
}

// createSampler builds the root sampler for a strategy. Stage spans
// (parse, transform, generate) always follow their conversion's decision.
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	if strategy != SamplerAlways && strategy != SamplerNever && (ratio < 0 || ratio > 1) {
		return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
	}

	var root sdktrace.Sampler
	switch strategy {
	case SamplerAlways:
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio:
		root = sdktrace.TraceIDRatioBased(ratio)
	case SamplerBatch:
		root = batchSampler{conversions: sdktrace.TraceIDRatioBased(ratio)}
	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: %v)", strategy, Samplers())
	}
	return sdktrace.ParentBased(root), nil
}

// batchSampler keeps every root batch span and defers other roots to
// conversions.
type batchSampler struct {
	conversions sdktrace.Sampler
}

func (s batchSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	if p.Name == SpanBatch {
		return sdktrace.SamplingResult{
			Decision:   sdktrace.RecordAndSample,
			Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
		}
	}
	return s.conversions.ShouldSample(p)
}

func (s batchSampler) Description() string {
	return fmt.Sprintf("BatchSampler{conversions:%s}", s.conversions.Description())
}
