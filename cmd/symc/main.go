// symc converts symbolic expressions into C source text.
//
// Expressions are read in a Symja-compatible syntax, either as infix text
// ("x^2 - (y*(-1))") or in FullForm ("Plus[x, Times[-1, y]]"), cleaned up
// by tree transforms and rendered as C expressions.
//
// Usage:
//
//	# Convert one expression
//	symc convert "Times[Plus[a, b], c]"
//
//	# Show the typed tree
//	symc parse "a - b" --format yaml
//
//	# Render a batch of named expressions as C declarations
//	symc batch --file exprs.yaml --out exprs.c
//
//	# Regenerate exprs.c whenever exprs.yaml changes
//	symc watch --file exprs.yaml --out exprs.c --metrics-addr :9090
//
//	# Inspect or prune the conversion cache
//	symc cache stats
package main

func main() {
	Execute()
}
