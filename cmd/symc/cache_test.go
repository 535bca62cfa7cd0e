package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/symc/pkg/cache"
	"mercator-hq/symc/pkg/cli"
	"mercator-hq/symc/pkg/config"
)

func sqliteCacheConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	return useConfig(t, func(cfg *config.Config) {
		cfg.Cache.Enabled = true
		cfg.Cache.Driver = cache.DriverSQLite
		cfg.Cache.Path = path
	})
}

func TestCacheCommands(t *testing.T) {
	cfg := sqliteCacheConfig(t)

	// Populate through convert.
	resetConvertFlags()
	cmd, _, _ := testCommand()
	if err := runConvert(cmd, []string{"a - b", "Plus[x, 1]"}); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	cacheFlags.format = "json"
	cmd, out, _ := testCommand()
	if err := runCacheStats(cmd, nil); err != nil {
		t.Fatalf("runCacheStats() error = %v", err)
	}
	var stats struct {
		Backend string `json:"backend"`
		Entries int64  `json:"entries"`
		Path    string `json:"path"`
	}
	if err := json.Unmarshal(out.Bytes(), &stats); err != nil {
		t.Fatalf("stats output is not JSON: %v\n%s", err, out.String())
	}
	if stats.Entries != 2 || stats.Path != cfg.Cache.Path {
		t.Errorf("stats = %+v, want 2 entries at %s", stats, cfg.Cache.Path)
	}

	cacheFlags.format = "text"
	cmd, out, _ = testCommand()
	if err := runCacheStats(cmd, nil); err != nil {
		t.Fatalf("runCacheStats() error = %v", err)
	}
	if !strings.Contains(out.String(), "entries: 2") {
		t.Errorf("text stats = %q, want entries: 2", out.String())
	}

	cacheFlags.maxEntries = 1
	cmd, out, _ = testCommand()
	if err := runCachePrune(cmd, nil); err != nil {
		t.Fatalf("runCachePrune() error = %v", err)
	}
	cacheFlags.maxEntries = 0
	if !strings.Contains(out.String(), "Pruned 1 entries") {
		t.Errorf("prune output = %q, want 1 pruned", out.String())
	}

	cmd, out, _ = testCommand()
	if err := runCacheClear(cmd, nil); err != nil {
		t.Fatalf("runCacheClear() error = %v", err)
	}
	if !strings.Contains(out.String(), "Removed 1 entries") {
		t.Errorf("clear output = %q, want 1 removed", out.String())
	}

	store, err := cache.Open(&cfg.Cache)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	s, err := store.Stats(context.Background())
	if err != nil || s.Entries != 0 {
		t.Errorf("Stats() = %+v, %v, want empty", s, err)
	}
}

func TestCacheCommands_Disabled(t *testing.T) {
	useConfig(t, nil)
	cacheFlags.format = "text"
	if err := runCacheStats(nil, nil); cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("runCacheStats() error = %v, want usage error", err)
	}
}
