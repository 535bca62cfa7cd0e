package metrics

import (
	"time"

	"mercator-hq/symc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ConversionMetrics tracks expression conversion metrics.
//
// Metrics:
//   - symc_conversions_total: Conversions by status ("success", "error", "cached")
//   - symc_stage_duration_seconds: Duration of parse, transform and generate stages
//   - symc_tree_nodes: Size of converted trees
//   - symc_errors_total: Errors by type
//   - symc_transform_replacements_total: Nodes replaced by each pass
//   - symc_calls_total: Function calls rendered, by function name
type ConversionMetrics struct {
	conversionsTotal *prometheus.CounterVec

	stageDuration *prometheus.HistogramVec

	treeNodes prometheus.Histogram

	errorsTotal *prometheus.CounterVec

	replacementsTotal *prometheus.CounterVec

	callsTotal *prometheus.CounterVec
}

// NewConversionMetrics creates and registers conversion metrics with the provided registry.
func NewConversionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ConversionMetrics {
	cm := &ConversionMetrics{
		conversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "conversions_total",
				Help:      "Total number of expression conversions",
			},
			[]string{"status"},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of conversion stages in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"stage"},
		),

		treeNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tree_nodes",
				Help:      "Number of nodes in converted expression trees",
				Buckets:   cfg.TreeSizeBuckets,
			},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "Total number of conversion errors by type",
			},
			[]string{"type"},
		),

		replacementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "transform_replacements_total",
				Help:      "Total number of nodes replaced by transform passes",
			},
			[]string{"pass"},
		),

		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "calls_total",
				Help:      "Total number of function calls rendered",
			},
			[]string{"function"},
		),
	}

	registry.MustRegister(
		cm.conversionsTotal,
		cm.stageDuration,
		cm.treeNodes,
		cm.errorsTotal,
		cm.replacementsTotal,
		cm.callsTotal,
	)

	return cm
}

// RecordConversion records a finished conversion.
//
// Parameters:
//   - status: "success", "error" or "cached"
//   - nodes: size of the converted tree, ignored when zero
func (cm *ConversionMetrics) RecordConversion(status string, nodes int) {
	cm.conversionsTotal.WithLabelValues(status).Inc()
	if nodes > 0 {
		cm.treeNodes.Observe(float64(nodes))
	}
}

// RecordStage records the duration of one conversion stage.
//
// Example:
//
//	cm.RecordStage("parse", 40*time.Microsecond)
func (cm *ConversionMetrics) RecordStage(stage string, duration time.Duration) {
	cm.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordError records a conversion error of the given type.
func (cm *ConversionMetrics) RecordError(errorType string) {
	cm.errorsTotal.WithLabelValues(errorType).Inc()
}

// RecordReplacements adds n replacements for a transform pass.
func (cm *ConversionMetrics) RecordReplacements(pass string, n int) {
	if n <= 0 {
		return
	}
	cm.replacementsTotal.WithLabelValues(pass).Add(float64(n))
}

// RecordCall records a rendered call to function.
func (cm *ConversionMetrics) RecordCall(function string) {
	cm.callsTotal.WithLabelValues(function).Inc()
}
