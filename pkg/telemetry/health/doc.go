// Package health serves liveness, readiness and version endpoints for
// `symc watch`.
//
// Readiness combines registered component checks (the conversion cache,
// the file watcher) with the outcome of the last regeneration, so a
// supervisor can tell when the generated C file is stale because its
// expressions no longer convert.
package health
