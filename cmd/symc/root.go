package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/symc/pkg/cache"
	"mercator-hq/symc/pkg/cli"
	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/expr"
	"mercator-hq/symc/pkg/telemetry"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

// shutdownTimeout bounds flushing telemetry and closing servers on exit.
const shutdownTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:   "symc",
	Short: "symc - symbolic expression to C converter",
	Long: `symc converts symbolic math expressions into C source text.

Expressions are parsed into a typed tree of symbols, integer literals and
operator applications (Plus, Minus, Times, Power, UnaryMinus), cleaned up by
transform passes that drop redundant negations and parentheses, and rendered
as C expressions.

Configuration is read from --config (YAML) and SYMC_* environment variables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a status derived from the
// returned error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig returns the global configuration, loading it from cfgFile on
// first use.
func loadConfig() (*config.Config, error) {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg, nil
	}
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("config", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// app holds what the conversion commands share.
type app struct {
	cfg   *config.Config
	tel   *telemetry.Telemetry
	store cache.Store // nil when caching is off
	conv  *expr.Converter
}

// newApp builds telemetry, the cache and a converter from cfg. Logs go to
// stderr so they never mix with generated output.
func newApp(cfg *config.Config, useCache bool) (*app, error) {
	tel, err := telemetry.New(&cfg.Telemetry, os.Stderr)
	if err != nil {
		return nil, cli.NewConfigError("telemetry", err.Error())
	}

	a := &app{cfg: cfg, tel: tel}
	if useCache && cfg.Cache.Enabled {
		store, err := cache.Open(&cfg.Cache)
		if err != nil {
			// Conversion works without the cache.
			tel.Logger().Warn("conversion cache unavailable", "driver", cfg.Cache.Driver, "error", err)
		} else {
			a.store = store
		}
	}

	if err := a.rebuild(cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// rebuild replaces the converter after a configuration change.
func (a *app) rebuild(cfg *config.Config) error {
	opts := []expr.Option{expr.WithTelemetry(a.tel)}
	if a.store != nil {
		opts = append(opts, expr.WithCache(a.store))
	}
	conv, err := expr.NewConverter(cfg, opts...)
	if err != nil {
		return cli.NewConfigError("transform.passes", err.Error())
	}
	a.cfg = cfg
	a.conv = conv
	return nil
}

// Close releases the cache and flushes telemetry.
func (a *app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, a.tel.Shutdown(ctx))
	return errors.Join(errs...)
}

// stdout returns the command's output writer. Commands invoked directly in
// tests may have a nil cmd.
func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

func stderr(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stderr
	}
	return cmd.ErrOrStderr()
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd == nil || cmd.Context() == nil {
		return context.Background()
	}
	return cmd.Context()
}
