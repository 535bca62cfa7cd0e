// Package tracing provides OpenTelemetry tracing for symc conversions.
//
// Each conversion opens a "expr.convert" span with children for the
// parse, transform and generate stages. Spans are exported over OTLP/gRPC
// when tracing is enabled; otherwise a noop tracer is used and the
// overhead is negligible.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "expr.parse")
//	defer span.End()
//
// # Sampling Strategies
//
//   - always: Sample all traces
//   - never: Sample no traces
//   - ratio: Sample a fraction of traces by trace ID
package tracing
