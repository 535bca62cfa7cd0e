// Package expr converts symbolic expressions to C source text.
//
// The subpackages hold the pieces: syntax reads text into a generic tree,
// parser builds the typed ast.Tree from it, transform rewrites the tree
// and codegen renders it. This package wires them together.
//
// For one-off use:
//
//	c, err := expr.ConvertToC("(a + b) * c") // "(a+b)*c"
//
// A Converter adds configuration, caching and telemetry:
//
//	conv, err := expr.NewConverter(cfg,
//	    expr.WithTelemetry(tel),
//	    expr.WithCache(store),
//	)
//	res, err := conv.Convert(ctx, "Plus[a, b]")
//
// Batches of named expressions are read from YAML or plain text with
// LoadBatch and rendered as C declarations by Converter.RunBatch.
package expr
