package metrics

import (
	"sync"
	"time"

	"mercator-hq/symc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// OtherLabel replaces label values once the cardinality limit is reached.
const OtherLabel = "other"

// Collector is the main orchestrator for all Prometheus metrics in symc.
// It manages metric registration and provides a unified interface for
// recording metrics across the conversion pipeline and the cache.
//
// Every Record method is a no-op on a nil Collector or when metrics are
// disabled, so callers never need to check.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	conversionMetrics *ConversionMetrics

	cacheMetrics *CacheMetrics

	// Function names come from user input.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "symc",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}
	if len(cfg.TreeSizeBuckets) == 0 {
		cfg.TreeSizeBuckets = append([]float64(nil), config.DefaultTreeSizeBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(256),
	}

	c.conversionMetrics = NewConversionMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)

	return c
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordConversion records a finished conversion.
//
// Parameters:
//   - status: "success", "error" or "cached"
//   - nodes: number of nodes in the converted tree (0 if unknown)
func (c *Collector) RecordConversion(status string, nodes int) {
	if !c.Enabled() {
		return
	}

	c.conversionMetrics.RecordConversion(status, nodes)
}

// RecordStage records how long a conversion stage took.
// Stages are "parse", "transform" and "generate".
func (c *Collector) RecordStage(stage string, duration time.Duration) {
	if !c.Enabled() {
		return
	}

	c.conversionMetrics.RecordStage(stage, duration)
}

// RecordError records an error by its type (e.g. "syntax", "malformed").
func (c *Collector) RecordError(errorType string) {
	if !c.Enabled() {
		return
	}

	c.conversionMetrics.RecordError(errorType)
}

// RecordReplacements records how many nodes a transform pass replaced.
func (c *Collector) RecordReplacements(pass string, n int) {
	if !c.Enabled() {
		return
	}

	c.conversionMetrics.RecordReplacements(pass, n)
}

// RecordCall records a rendered function call. Names past the cardinality
// limit are aggregated under OtherLabel.
func (c *Collector) RecordCall(function string) {
	if !c.Enabled() {
		return
	}

	if !c.cardinalityLimiter.Allow(function) {
		function = OtherLabel
	}
	c.conversionMetrics.RecordCall(function)
}

// RecordCacheLookup records a conversion cache lookup. result is
// LookupHit, LookupMiss or LookupError.
func (c *Collector) RecordCacheLookup(result string, duration time.Duration) {
	if !c.Enabled() {
		return
	}

	c.cacheMetrics.RecordLookup(result, duration)
}

// RecordCacheWriteError records a conversion that could not be stored.
func (c *Collector) RecordCacheWriteError() {
	if !c.Enabled() {
		return
	}

	c.cacheMetrics.RecordWriteError()
}

// RecordCachePrune records a retention run. Pass -1 for entries when the
// cache size is unknown.
func (c *Collector) RecordCachePrune(at time.Time, removed, entries int) {
	if !c.Enabled() {
		return
	}

	c.cacheMetrics.RecordPrune(at, removed, entries)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
