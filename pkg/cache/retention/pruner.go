package retention

import (
	"context"
	"fmt"
	"time"

	"mercator-hq/symc/pkg/cache"
	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/telemetry/logging"
	"mercator-hq/symc/pkg/telemetry/metrics"
)

// Pruner enforces retention limits on a conversion cache.
type Pruner struct {
	store   cache.Store
	config  *config.RetentionConfig
	logger  *logging.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(p *Pruner) { p.logger = logger }
}

// WithMetrics records pruned entries and cache size on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(p *Pruner) { p.metrics = collector }
}

// WithClock sets the time source used to compute the age cutoff.
func WithClock(now func() time.Time) Option {
	return func(p *Pruner) { p.now = now }
}

// NewPruner creates a pruner for store. A nil config keeps everything.
func NewPruner(store cache.Store, cfg *config.RetentionConfig, opts ...Option) *Pruner {
	if cfg == nil {
		cfg = &config.RetentionConfig{}
	}

	p := &Pruner{
		store:  store,
		config: cfg,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Component("cache.retention")
	return p
}

// Cutoff returns the last-used time before which entries are removed, or
// the zero time when MaxAge is not set.
func (p *Pruner) Cutoff() time.Time {
	if p.config.MaxAge <= 0 {
		return time.Time{}
	}
	return p.now().Add(-p.config.MaxAge)
}

// Prune removes entries older than MaxAge and beyond MaxEntries.
// It returns the number of entries removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	cutoff := p.Cutoff()

	p.logger.DebugContext(ctx, "pruning conversion cache",
		"cutoff", cutoff,
		"max_entries", p.config.MaxEntries,
	)

	removed, err := p.store.Prune(ctx, cutoff, p.config.MaxEntries)
	if err != nil {
		return removed, fmt.Errorf("prune cache: %w", err)
	}
	entries := -1
	if stats, err := p.store.Stats(ctx); err == nil {
		entries = int(stats.Entries)
	}
	p.metrics.RecordCachePrune(p.now(), int(removed), entries)

	if removed > 0 {
		p.logger.InfoContext(ctx, "cache pruning completed",
			"removed", removed,
			"max_age", p.config.MaxAge,
			"max_entries", p.config.MaxEntries,
		)
	} else {
		p.logger.DebugContext(ctx, "cache pruning completed, nothing removed")
	}

	return removed, nil
}
