package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/telemetry/logging"
	"mercator-hq/symc/pkg/telemetry/metrics"
	"mercator-hq/symc/pkg/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry holds the logger, metrics collector and tracer built from one
// TelemetryConfig.
type Telemetry struct {
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// New builds all telemetry components. Logs go to w (os.Stderr when nil).
func New(cfg *config.TelemetryConfig, w io.Writer) (*Telemetry, error) {
	if cfg == nil {
		return nil, errors.New("telemetry config is nil")
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Writer:    w,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Metrics, prometheus.NewRegistry()),
		tracer:  tracer,
	}, nil
}

// Discard returns telemetry that records nothing.
func Discard() *Telemetry {
	return &Telemetry{
		logger: logging.Discard(),
		tracer: tracing.Noop(),
	}
}

// Logger returns the logger.
func (t *Telemetry) Logger() *logging.Logger { return t.logger }

// Metrics returns the metrics collector. It is nil for Discard.
func (t *Telemetry) Metrics() *metrics.Collector { return t.metrics }

// Tracer returns the tracer.
func (t *Telemetry) Tracer() *tracing.Tracer { return t.tracer }

// Shutdown flushes the tracer and the logger.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(t.tracer.Shutdown(ctx), t.logger.Shutdown())
}
