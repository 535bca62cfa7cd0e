package metrics

import (
	"time"

	"mercator-hq/symc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a conversion cache lookup.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// CacheMetrics covers the conversion cache.
//
// Metrics:
//   - symc_cache_lookups_total: lookups by result (hit, miss, error)
//   - symc_cache_lookup_duration_seconds: time spent in Store.Get
//   - symc_cache_write_errors_total: failed Store.Put calls
//   - symc_cache_entries: entries left after the last retention run
//   - symc_cache_pruned_total: entries removed by retention
//   - symc_cache_last_prune_timestamp_seconds: when retention last ran
//
// Hit rate is left to PromQL:
//
//	rate(symc_cache_lookups_total{result="hit"}[5m]) /
//	sum(rate(symc_cache_lookups_total[5m]))
type CacheMetrics struct {
	lookupsTotal   *prometheus.CounterVec
	lookupDuration prometheus.Histogram
	writeErrors    prometheus.Counter
	entries        prometheus.Gauge
	prunedTotal    prometheus.Counter
	lastPrune      prometheus.Gauge
}

// NewCacheMetrics creates and registers cache metrics with registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		}
	}

	cm := &CacheMetrics{
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("cache_lookups_total", "Total number of conversion cache lookups by result")),
			[]string{"result"},
		),
		lookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_lookup_duration_seconds",
			Help:      "Time spent reading the conversion cache",
			Buckets:   cfg.DurationBuckets,
		}),
		writeErrors: prometheus.NewCounter(
			prometheus.CounterOpts(opts("cache_write_errors_total", "Total number of failed conversion cache writes")),
		),
		entries: prometheus.NewGauge(
			prometheus.GaugeOpts(opts("cache_entries", "Entries in the conversion cache after the last retention run")),
		),
		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts(opts("cache_pruned_total", "Total number of cache entries removed by retention")),
		),
		lastPrune: prometheus.NewGauge(
			prometheus.GaugeOpts(opts("cache_last_prune_timestamp_seconds", "Unix time of the last retention run")),
		),
	}

	// Known results start at zero so the hit rate has a denominator.
	for _, result := range []string{LookupHit, LookupMiss, LookupError} {
		cm.lookupsTotal.WithLabelValues(result)
	}

	registry.MustRegister(
		cm.lookupsTotal,
		cm.lookupDuration,
		cm.writeErrors,
		cm.entries,
		cm.prunedTotal,
		cm.lastPrune,
	)

	return cm
}

// RecordLookup records one Store.Get with its result and duration.
func (cm *CacheMetrics) RecordLookup(result string, duration time.Duration) {
	cm.lookupsTotal.WithLabelValues(result).Inc()
	cm.lookupDuration.Observe(duration.Seconds())
}

// RecordWriteError records a failed Store.Put.
func (cm *CacheMetrics) RecordWriteError() {
	cm.writeErrors.Inc()
}

// RecordPrune records a retention run at the given time that removed
// removed entries and left entries behind. A negative entries count leaves
// the size gauge untouched.
func (cm *CacheMetrics) RecordPrune(at time.Time, removed, entries int) {
	if removed > 0 {
		cm.prunedTotal.Add(float64(removed))
	}
	if entries >= 0 {
		cm.entries.Set(float64(entries))
	}
	cm.lastPrune.Set(float64(at.Unix()))
}
