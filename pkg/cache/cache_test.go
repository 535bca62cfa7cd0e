package cache

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/symc/pkg/config"
)

// fakeClock advances by one second on every reading.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type backend struct {
	name string
	open func(t *testing.T, clock *fakeClock) Store
}

func backends() []backend {
	openSQLite := func(driver string) func(t *testing.T, clock *fakeClock) Store {
		return func(t *testing.T, clock *fakeClock) Store {
			t.Helper()
			store, err := NewSQLiteStore(SQLiteConfig{
				Driver: driver,
				Path:   filepath.Join(t.TempDir(), "nested", "cache.db"),
			}, WithClock(clock.Now))
			if err != nil {
				if strings.Contains(err.Error(), "CGO_ENABLED=0") {
					t.Skipf("%s driver needs cgo: %v", driver, err)
				}
				t.Fatalf("NewSQLiteStore(%s) error = %v", driver, err)
			}
			t.Cleanup(func() { store.Close() })
			return store
		}
	}

	return []backend{
		{"memory", func(t *testing.T, clock *fakeClock) Store { return NewMemoryStore(WithClock(clock.Now)) }},
		{DriverSQLite, openSQLite(DriverSQLite)},
		{DriverSQLite3, openSQLite(DriverSQLite3)},
	}
}

func TestKeyHash(t *testing.T) {
	a := NewKey("a-b", "guard=false")
	if a.Hash() != NewKey("a-b", "guard=false").Hash() {
		t.Error("equal keys hash differently")
	}
	if a.Hash() == NewKey("a-b", "guard=true").Hash() {
		t.Error("options do not affect the hash")
	}
	// The separator keeps the two fields apart.
	if NewKey("b", "a").Hash() == NewKey("", "ab").Hash() {
		t.Error("field boundary does not affect the hash")
	}
	if len(a.Hash()) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(a.Hash()))
	}
}

func TestStore_GetPut(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			store := b.open(t, newFakeClock())
			key := NewKey("a - b", "passes=default")

			if _, ok, err := store.Get(ctx, key); err != nil || ok {
				t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
			}

			put, err := store.Put(ctx, key, "a-b")
			if err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if put.ID == "" || put.Hash != key.Hash() {
				t.Errorf("Put() entry = %+v", put)
			}

			got, ok, err := store.Get(ctx, key)
			if err != nil || !ok {
				t.Fatalf("Get() = ok %v, err %v", ok, err)
			}
			if got.Output != "a-b" {
				t.Errorf("Output = %q, want %q", got.Output, "a-b")
			}
			if got.Hits != 1 {
				t.Errorf("Hits = %d, want 1", got.Hits)
			}
			if !got.LastUsed.After(got.CreatedAt) {
				t.Errorf("LastUsed %v not after CreatedAt %v", got.LastUsed, got.CreatedAt)
			}

			// Replacing output keeps identity.
			again, err := store.Put(ctx, key, "a - b")
			if err != nil {
				t.Fatalf("second Put() error = %v", err)
			}
			if again.ID != put.ID {
				t.Errorf("ID changed on overwrite: %q -> %q", put.ID, again.ID)
			}
			if !again.CreatedAt.Equal(put.CreatedAt) {
				t.Errorf("CreatedAt changed on overwrite")
			}
			if again.Output != "a - b" {
				t.Errorf("Output = %q, want %q", again.Output, "a - b")
			}
		})
	}
}

func TestStore_Stats(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			store := b.open(t, newFakeClock())

			empty, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			if empty.Entries != 0 || !empty.Oldest.IsZero() {
				t.Errorf("empty Stats() = %+v", empty)
			}

			for _, expr := range []string{"x", "y", "z"} {
				if _, err := store.Put(ctx, NewKey(expr, ""), expr); err != nil {
					t.Fatal(err)
				}
			}
			store.Get(ctx, NewKey("x", ""))
			store.Get(ctx, NewKey("x", ""))

			stats, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			if stats.Backend != b.name {
				t.Errorf("Backend = %q, want %q", stats.Backend, b.name)
			}
			if stats.Entries != 3 || stats.Hits != 2 {
				t.Errorf("Stats() = %+v, want 3 entries and 2 hits", stats)
			}
			if !stats.Newest.After(stats.Oldest) {
				t.Errorf("Newest %v not after Oldest %v", stats.Newest, stats.Oldest)
			}
		})
	}
}

func TestStore_Prune(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			clock := newFakeClock()
			store := b.open(t, clock)

			// a, b, c, d are used at t+1s .. t+4s; a is read again last.
			for _, expr := range []string{"a", "b", "c", "d"} {
				if _, err := store.Put(ctx, NewKey(expr, ""), expr); err != nil {
					t.Fatal(err)
				}
			}
			cutoff := clock.Now() // t+5s
			store.Get(ctx, NewKey("a", ""))

			removed, err := store.Prune(ctx, time.Time{}, 0)
			if err != nil || removed != 0 {
				t.Fatalf("Prune(no limits) = %d, %v; want 0", removed, err)
			}

			removed, err = store.Prune(ctx, cutoff, 0)
			if err != nil {
				t.Fatalf("Prune(age) error = %v", err)
			}
			if removed != 3 {
				t.Errorf("Prune(age) removed %d, want 3", removed)
			}
			if _, ok, _ := store.Get(ctx, NewKey("a", "")); !ok {
				t.Error("recently used entry was pruned")
			}

			for _, expr := range []string{"e", "f"} {
				store.Put(ctx, NewKey(expr, ""), expr)
			}
			removed, err = store.Prune(ctx, time.Time{}, 2)
			if err != nil {
				t.Fatalf("Prune(count) error = %v", err)
			}
			if removed != 1 {
				t.Errorf("Prune(count) removed %d, want 1", removed)
			}
			if _, ok, _ := store.Get(ctx, NewKey("a", "")); ok {
				t.Error("least recently used entry survived count pruning")
			}
		})
	}
}

func TestStore_ClearAndClose(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			store := b.open(t, newFakeClock())

			store.Put(ctx, NewKey("x", ""), "x")
			store.Put(ctx, NewKey("y", ""), "y")

			n, err := store.Clear(ctx)
			if err != nil || n != 2 {
				t.Errorf("Clear() = %d, %v; want 2", n, err)
			}
			if err := store.Ping(ctx); err != nil {
				t.Errorf("Ping() error = %v", err)
			}

			if err := store.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if err := store.Ping(ctx); err == nil {
				t.Error("Ping() after Close() error = nil")
			}
		})
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if _, err := store.Put(ctx, NewKey("x^2", ""), "x^2"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	entry, ok, err := reopened.Get(ctx, NewKey("x^2", ""))
	if err != nil || !ok || entry.Output != "x^2" {
		t.Errorf("Get() after reopen = %+v, %v, %v", entry, ok, err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CacheConfig
		wantErr bool
	}{
		{"memory", config.CacheConfig{Driver: "memory"}, false},
		{"sqlite", config.CacheConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "c.db")}, false},
		{"sqlite without path", config.CacheConfig{Driver: "sqlite"}, true},
		{"unknown driver", config.CacheConfig{Driver: "pg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var serr *StorageError
				if !errors.As(err, &serr) || serr.Operation != "open" {
					t.Errorf("error = %v, want StorageError for open", err)
				}
				return
			}
			store.Close()
		})
	}
}
