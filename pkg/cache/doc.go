// Package cache memoizes expression conversions.
//
// An entry maps an expression and an options fingerprint (everything that
// changes the generated C: passes, precedence guard, spacing, function
// table) to the rendered output. Entries are keyed by a SHA-256 of both,
// carry a UUID, and record when they were created and last used so that
// retention can drop cold entries.
//
// Three backends are available through Open:
//
//   - "sqlite": modernc.org/sqlite, pure Go (default)
//   - "sqlite3": github.com/mattn/go-sqlite3, cgo
//   - "memory": process-local map, used when the cache is disabled and in tests
//
// Usage:
//
//	store, err := cache.Open(&cfg.Cache)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	key := cache.NewKey("a - b", fingerprint)
//	if entry, ok, err := store.Get(ctx, key); err == nil && ok {
//	    return entry.Output, nil
//	}
package cache
