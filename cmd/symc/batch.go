package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mercator-hq/symc/pkg/cli"
	"mercator-hq/symc/pkg/expr"
	"mercator-hq/symc/pkg/telemetry/logging"
)

var batchFlags struct {
	file     string
	out      string
	format   string
	progress bool
	noCache  bool
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render a file of expressions as C",
	Long: `Convert every expression in a batch file and write C statements.

YAML batches name their expressions and become declarations:

  type: double
  expressions:
    - name: area
      expr: w*h

Text batches hold one expression per line, optionally written "name = expr".
Unnamed expressions become bare statements.

Failing expressions are reported together after the successful ones are
written; the command then exits non-zero.

Examples:
  symc batch --file exprs.yaml --out exprs.c
  symc batch --file exprs.txt --format json`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFlags.file, "file", "f", "", "batch file (.yaml, .yml or text)")
	batchCmd.Flags().StringVarP(&batchFlags.out, "out", "o", "", "write C output to this file (default stdout)")
	batchCmd.Flags().StringVar(&batchFlags.format, "format", "text", "output format: text (C), json, yaml, csv")
	batchCmd.Flags().BoolVar(&batchFlags.progress, "progress", false, "show a progress bar on stderr")
	batchCmd.Flags().BoolVar(&batchFlags.noCache, "no-cache", false, "bypass the conversion cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchFlags.file == "" {
		return cli.NewConfigError("file", "--file is required")
	}
	format, err := cli.ParseFormat(batchFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, !batchFlags.noCache)
	if err != nil {
		return err
	}
	defer a.Close()

	var progress *cli.BatchProgress
	if batchFlags.progress {
		progress = cli.NewBatchProgress(stderr(cmd), filepath.Base(batchFlags.file))
	}

	res, err := generate(commandContext(cmd), a, batchFlags.file, progress)
	if err != nil {
		return cli.NewCommandError("batch", err)
	}

	if err := writeResult(stdout(cmd), batchFlags.out, format, res); err != nil {
		return cli.NewCommandError("batch", err)
	}
	if err := res.Err(); err != nil {
		return cli.NewCommandError("batch", err)
	}
	return nil
}

// generate loads and converts one batch file under a fresh run ID.
func generate(ctx context.Context, a *app, path string, progress *cli.BatchProgress) (*expr.BatchResult, error) {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithSource(ctx, path)

	b, err := expr.LoadBatch(path)
	if err != nil {
		return nil, err
	}

	var onProgress expr.ProgressFunc
	if progress != nil {
		progress.Start(len(b.Expressions))
		defer progress.Finish()
		onProgress = func(item expr.BatchItem, _, _ int) {
			progress.Record(item.Cached, item.Error != "")
		}
	}

	return a.conv.RunBatch(ctx, b, onProgress)
}

// writeResult writes C text (text format) or a structured report. An empty
// path or "-" means w.
func writeResult(w io.Writer, path string, format cli.OutputFormat, res *expr.BatchResult) error {
	var buf bytes.Buffer
	if format == cli.FormatText {
		if err := res.WriteC(&buf); err != nil {
			return err
		}
	} else {
		formatter, err := cli.NewFormatter(format)
		if err != nil {
			return err
		}
		if err := formatter.FormatTo(&buf, res); err != nil {
			return err
		}
	}

	if path == "" || path == "-" {
		_, err := w.Write(buf.Bytes())
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

// writeFileAtomic replaces path so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
