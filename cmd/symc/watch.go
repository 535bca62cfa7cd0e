package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/symc/pkg/cache/retention"
	"mercator-hq/symc/pkg/cli"
	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/telemetry/health"
	"mercator-hq/symc/pkg/telemetry/logging"
	"mercator-hq/symc/pkg/watch"
)

var watchFlags struct {
	file        string
	out         string
	metricsAddr string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate C output whenever a batch file changes",
	Long: `Convert a batch file, then watch it and convert it again on every change.

The output file is replaced atomically after each run. When --config is
given, changes to the configuration file are picked up too.

With a metrics address, an HTTP server exposes:
  /metrics  Prometheus metrics
  /health   liveness
  /ready    readiness (fails after a failed regeneration)
  /version  build information

The conversion cache is pruned on the cache.retention.schedule cron schedule.

Examples:
  symc watch --file exprs.yaml --out exprs.c
  symc watch --file exprs.yaml --out exprs.c --metrics-addr 127.0.0.1:9090`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.file, "file", "f", "", "batch file to watch")
	watchCmd.Flags().StringVarP(&watchFlags.out, "out", "o", "", "C output file")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "override watch.metrics_address")
}

// watcherSession is the state of one watch command.
type watcherSession struct {
	mu      sync.Mutex
	app     *app
	checker *health.Checker
	logger  *logging.Logger
	file    string
	out     string
}

// regenerate converts the batch file and replaces the output. Conversion
// failures keep the successful declarations and mark readiness failed.
func (s *watcherSession) regenerate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := generate(ctx, s.app, s.file, nil)
	if err != nil {
		s.checker.RecordRun("", 0, err)
		return err
	}

	if err := writeResult(nil, s.out, cli.FormatText, res); err != nil {
		s.checker.RecordRun(res.RunID, len(res.Items), err)
		return err
	}

	runErr := res.Err()
	s.checker.RecordRun(res.RunID, len(res.Items), runErr)
	if runErr != nil {
		s.logger.WarnContext(ctx, "regenerated with errors",
			"run_id", res.RunID,
			"failed", res.Failed,
			"error", runErr,
		)
		return nil
	}
	s.logger.InfoContext(ctx, "regenerated",
		"run_id", res.RunID,
		"out", s.out,
		"expressions", len(res.Items),
	)
	return nil
}

// reloadConfig swaps in a new configuration and reports whether the output
// must be regenerated. On failure the old configuration stays.
func (s *watcherSession) reloadConfig(ctx context.Context) bool {
	r, err := config.ReloadConfig(cfgFile)
	if err != nil {
		s.logger.ErrorContext(ctx, "configuration reload failed, keeping previous", "error", err)
		return false
	}
	if len(r.Changed) == 0 {
		s.logger.DebugContext(ctx, "configuration unchanged", "path", cfgFile)
		return false
	}
	s.logger.InfoContext(ctx, "configuration reloaded", "path", cfgFile, "changed", r.Changed)

	for _, sec := range []config.Section{config.SectionCache, config.SectionWatch, config.SectionTelemetry} {
		if r.Has(sec) {
			s.logger.WarnContext(ctx, "configuration section takes effect on restart", "section", sec)
		}
	}
	if !r.AffectsOutput() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.app.rebuild(r.Current); err != nil {
		s.logger.ErrorContext(ctx, "converter rebuild failed, keeping previous", "error", err)
		return false
	}
	return true
}

// onChange regenerates after a change to the batch file, or after a
// configuration change that alters the output.
func (s *watcherSession) onChange(ctx context.Context, changed []string) error {
	regenerate := false
	for _, path := range changed {
		if sameFile(path, s.file) {
			regenerate = true
		}
	}
	if cfgFile != "" && slices.ContainsFunc(changed, func(p string) bool { return sameFile(p, cfgFile) }) {
		if s.reloadConfig(ctx) {
			regenerate = true
		}
	}
	if !regenerate {
		return nil
	}
	return s.regenerate(ctx)
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFlags.file == "" {
		return cli.NewConfigError("file", "--file is required")
	}
	if watchFlags.out == "" {
		return cli.NewConfigError("out", "--out is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Watch.MetricsAddress
	if watchFlags.metricsAddr != "" {
		if _, _, err := net.SplitHostPort(watchFlags.metricsAddr); err != nil {
			return cli.NewConfigError("metrics-addr", err.Error())
		}
		addr = watchFlags.metricsAddr
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	logger := a.tel.Logger().Component("watch")
	checker := health.New(2 * time.Second)
	session := &watcherSession{
		app:     a,
		checker: checker,
		logger:  logger,
		file:    watchFlags.file,
		out:     watchFlags.out,
	}

	if err := session.regenerate(ctx); err != nil {
		// Keep watching; the next save may fix it.
		logger.ErrorContext(ctx, "initial generation failed", "error", err)
	}

	if a.store != nil {
		checker.RegisterCheck("cache", a.store.Ping)

		pruner := retention.NewPruner(a.store, &cfg.Cache.Retention,
			retention.WithLogger(a.tel.Logger()),
			retention.WithMetrics(a.tel.Metrics()),
		)
		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			logger.Warn("failed to start cache retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			if next := scheduler.NextRun(); next != nil {
				logger.Debug("cache retention scheduled", "next_run", next)
			}
		}
	}

	paths := []string{watchFlags.file}
	if cfgFile != "" {
		paths = append(paths, cfgFile)
	}
	watcher, err := watch.New(watch.ConfigFrom(&cfg.Watch, paths...), a.tel.Logger())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Close()
	checker.RegisterCheck("watcher", watcher.Ping)

	var srv *http.Server
	if addr != "" {
		srv, err = startStatusServer(ctx, addr, a, checker)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		fmt.Fprintf(stderr(cmd), "✓ Metrics endpoint: http://%s%s\n", addr, cfg.Telemetry.Metrics.Path)
		fmt.Fprintf(stderr(cmd), "✓ Health endpoint: http://%s/health\n", addr)
	}

	fmt.Fprintf(stderr(cmd), "✓ Watching %s → %s\n", watchFlags.file, watchFlags.out)
	fmt.Fprintln(stderr(cmd), "Press Ctrl+C to stop")

	runErr := watcher.Run(ctx, session.onChange)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("status server shutdown failed", "error", err)
		}
	}
	if runErr != nil {
		return cli.NewCommandError("watch", runErr)
	}

	fmt.Fprintln(stderr(cmd), "✓ Watch stopped")
	return nil
}

// startStatusServer serves metrics and health endpoints until Shutdown.
func startStatusServer(ctx context.Context, addr string, a *app, checker *health.Checker) (*http.Server, error) {
	mux := http.NewServeMux()
	if collector := a.tel.Metrics(); collector.Enabled() {
		mux.Handle(a.cfg.Telemetry.Metrics.Path, collector.Handler())
	}
	checker.Mount(mux, health.VersionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger := a.tel.Logger().Component("watch")
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "status server failed", "error", err)
		}
	}()
	return srv, nil
}
