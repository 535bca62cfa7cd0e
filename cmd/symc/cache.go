package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/symc/pkg/cache"
	"mercator-hq/symc/pkg/cache/retention"
	"mercator-hq/symc/pkg/cli"
	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/telemetry/logging"
)

var cacheFlags struct {
	format     string
	maxAge     time.Duration
	maxEntries int
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the conversion cache",
	Long: `Inspect and maintain the conversion cache.

Converted expressions are memoized by expression text and the options that
affect output. The cache location and retention limits come from the cache
section of the configuration.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE:  runCacheStats,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old cache entries",
	Long: `Remove entries not used within the retention age and trim the cache to
the configured maximum size.

Examples:
  symc cache prune
  symc cache prune --max-age 24h --max-entries 1000`,
	RunE: runCachePrune,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cachePruneCmd, cacheClearCmd)

	cacheStatsCmd.Flags().StringVar(&cacheFlags.format, "format", "text", "output format: text, json, yaml")
	cachePruneCmd.Flags().DurationVar(&cacheFlags.maxAge, "max-age", 0, "override cache.retention.max_age")
	cachePruneCmd.Flags().IntVar(&cacheFlags.maxEntries, "max-entries", 0, "override cache.retention.max_entries")
}

func openCache() (cache.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, nil, cli.NewConfigError("cache.enabled", "the conversion cache is disabled")
	}
	store, err := cache.Open(&cfg.Cache)
	if err != nil {
		return nil, nil, cli.NewCommandError("cache", err)
	}
	return store, cfg, nil
}

// statsView adds the cache location to the store statistics.
type statsView struct {
	cache.Stats `yaml:",inline"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (s statsView) String() string {
	text := fmt.Sprintf("backend: %s\nentries: %d\nhits:    %d", s.Backend, s.Entries, s.Hits)
	if s.Path != "" {
		text = fmt.Sprintf("path:    %s\n%s", s.Path, text)
	}
	if !s.Oldest.IsZero() {
		text += fmt.Sprintf("\noldest:  %s\nnewest:  %s", s.Oldest.Format(time.RFC3339), s.Newest.Format(time.RFC3339))
	}
	return text
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(cacheFlags.format)
	if err != nil {
		return err
	}
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return err
	}

	store, cfg, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("cache stats", err)
	}

	view := statsView{Stats: stats}
	if cfg.Cache.Driver != "memory" {
		view.Path = cfg.Cache.Path
	}
	return formatter.FormatTo(stdout(cmd), view)
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	store, cfg, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	policy := cfg.Cache.Retention
	if cacheFlags.maxAge > 0 {
		policy.MaxAge = cacheFlags.maxAge
	}
	if cacheFlags.maxEntries > 0 {
		policy.MaxEntries = cacheFlags.maxEntries
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
		Writer: stderr(cmd),
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	pruner := retention.NewPruner(store, &policy, retention.WithLogger(logger))
	removed, err := pruner.Prune(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("cache prune", err)
	}

	fmt.Fprintf(stdout(cmd), "✓ Pruned %d entries\n", removed)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, _, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Clear(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("cache clear", err)
	}

	fmt.Fprintf(stdout(cmd), "✓ Removed %d entries\n", removed)
	return nil
}
