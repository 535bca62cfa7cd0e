// Package retention prunes the conversion cache.
//
// A Pruner applies the age and count limits from config.RetentionConfig
// to a cache.Store. A Scheduler runs the pruner on a cron schedule while
// `symc watch` is running:
//
//	pruner := retention.NewPruner(store, &cfg.Cache.Retention,
//	    retention.WithLogger(logger), retention.WithMetrics(collector))
//	scheduler := retention.NewScheduler(pruner)
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
//
// Schedules use standard five-field cron syntax:
//
//   - "0 3 * * *": Daily at 3 AM (default)
//   - "0 */6 * * *": Every 6 hours
//   - "*/1 * * * *": Every minute
//
// An empty schedule disables the scheduler; `symc cache prune` still runs
// the pruner on demand.
package retention
