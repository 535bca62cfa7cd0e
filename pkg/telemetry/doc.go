// Package telemetry bundles the observability components used by symc.
//
// # Components
//
//   - logging: structured logging on log/slog
//   - metrics: Prometheus metrics for conversions and the cache
//   - tracing: OpenTelemetry spans for conversion stages
//   - health: liveness and readiness endpoints for watch mode
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tel.Logger().Info("converted", "nodes", 7)
//	tel.Metrics().RecordConversion("success", 7)
//	ctx, span := tel.Tracer().Start(ctx, "expr.convert")
package telemetry
