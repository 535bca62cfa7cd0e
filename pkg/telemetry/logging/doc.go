// Package logging provides structured logging on top of log/slog.
//
// # Overview
//
// The package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with run IDs and expression names
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.Info("expression converted",
//	    "expression", "energy",
//	    "nodes", 17,
//	    "duration_ms", 0.4,
//	)
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "batch started") // Includes run_id automatically
package logging
