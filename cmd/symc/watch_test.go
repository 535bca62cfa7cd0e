package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/symc/pkg/cli"
	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/telemetry/health"
)

func newTestSession(t *testing.T, file, out string) *watcherSession {
	t.Helper()
	cfg := useConfig(t, nil)
	a, err := newApp(cfg, false)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })

	return &watcherSession{
		app:     a,
		checker: health.New(time.Second),
		logger:  a.tel.Logger(),
		file:    file,
		out:     out,
	}
}

func TestWatcherSession_Regenerate(t *testing.T) {
	file := writeTestFile(t, "exprs.yaml", testBatch)
	out := filepath.Join(t.TempDir(), "exprs.c")
	s := newTestSession(t, file, out)
	ctx := context.Background()

	if err := s.regenerate(ctx); err != nil {
		t.Fatalf("regenerate() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "double sum = a+b;\ndouble scaled = (a+b)*c;\n" {
		t.Errorf("output = %q", string(data))
	}
	run := s.checker.LastRun()
	if run == nil || run.Error != "" || run.Expressions != 2 || run.ID == "" {
		t.Errorf("LastRun() = %+v, want successful run of 2", run)
	}
	if status := s.checker.CheckReadiness(ctx); status.Status != health.StatusReady {
		t.Errorf("readiness = %s, want ready", status.Status)
	}

	// A broken expression keeps the good one and fails readiness.
	if err := os.WriteFile(file, []byte("expressions:\n  - {name: ok, expr: x}\n  - {name: bad, expr: \"y[\"}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.onChange(ctx, []string{file}); err != nil {
		t.Fatalf("onChange() error = %v", err)
	}
	data, _ = os.ReadFile(out)
	if string(data) != "double ok = x;\n" {
		t.Errorf("output = %q, want only ok", string(data))
	}
	if status := s.checker.CheckReadiness(ctx); status.Status == health.StatusReady {
		t.Error("readiness ready after failed run")
	}
}

func TestWatcherSession_ConfigReload(t *testing.T) {
	file := writeTestFile(t, "exprs.txt", "sq = x^2\n")
	out := filepath.Join(t.TempDir(), "exprs.c")
	s := newTestSession(t, file, out)
	ctx := context.Background()

	cfgPath := writeTestFile(t, "symc.yaml", "codegen:\n  power_function: pow\n")
	oldCfgFile := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = oldCfgFile })

	if err := s.regenerate(ctx); err != nil {
		t.Fatalf("regenerate() error = %v", err)
	}
	if data, _ := os.ReadFile(out); string(data) != "double sq = x^2;\n" {
		t.Fatalf("output = %q", string(data))
	}

	// An output-affecting change rebuilds the converter and regenerates.
	if err := s.onChange(ctx, []string{cfgPath}); err != nil {
		t.Fatalf("onChange() error = %v", err)
	}
	if data, _ := os.ReadFile(out); string(data) != "double sq = pow(x, 2);\n" {
		t.Errorf("output after reload = %q, want pow call", string(data))
	}
	if got := config.GetConfig().Codegen.PowerFunction; got != "pow" {
		t.Errorf("PowerFunction = %q after reload, want pow", got)
	}

	// A watch-only change leaves the output alone.
	if err := os.Remove(out); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("codegen:\n  power_function: pow\nwatch:\n  debounce: 1s\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.onChange(ctx, []string{cfgPath}); err != nil {
		t.Fatalf("onChange() error = %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output regenerated after a watch-only configuration change")
	}

	// A broken file keeps the previous configuration.
	if err := os.WriteFile(cfgPath, []byte("cache:\n  driver: pg\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.onChange(ctx, []string{cfgPath}); err != nil {
		t.Fatalf("onChange() error = %v", err)
	}
	if got := config.GetConfig().Watch.Debounce; got != time.Second {
		t.Errorf("Debounce = %v after failed reload, want 1s", got)
	}
}

func TestWatcherSession_MissingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "exprs.c")
	s := newTestSession(t, filepath.Join(t.TempDir(), "missing.yaml"), out)

	if err := s.regenerate(context.Background()); err == nil {
		t.Error("regenerate() error = nil, want error")
	}
	if run := s.checker.LastRun(); run == nil || run.Error == "" {
		t.Errorf("LastRun() = %+v, want failed run", run)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written for a missing input")
	}
}

func TestRunWatch_FlagErrors(t *testing.T) {
	useConfig(t, nil)

	watchFlags.file, watchFlags.out, watchFlags.metricsAddr = "", "x.c", ""
	if err := runWatch(nil, nil); cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("runWatch(no file) error = %v, want usage error", err)
	}

	watchFlags.file, watchFlags.out = "x.yaml", ""
	if err := runWatch(nil, nil); cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("runWatch(no out) error = %v, want usage error", err)
	}

	watchFlags.file, watchFlags.out, watchFlags.metricsAddr = "x.yaml", "x.c", "not-an-address"
	if err := runWatch(nil, nil); cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("runWatch(bad addr) error = %v, want usage error", err)
	}
	watchFlags.metricsAddr = ""
}

func TestRunWatch_EndToEnd(t *testing.T) {
	useConfig(t, func(cfg *config.Config) { cfg.Watch.Debounce = 30 * time.Millisecond })
	dir := t.TempDir()
	file := filepath.Join(dir, "exprs.txt")
	out := filepath.Join(dir, "out", "exprs.c")
	if err := os.WriteFile(file, []byte("a = x + 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	watchFlags.file, watchFlags.out, watchFlags.metricsAddr = file, out, ""

	ctx, cancel := context.WithCancel(context.Background())
	cmd, _, _ := testCommand()
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- runWatch(cmd, nil) }()

	waitForFile(t, out, "double a = x+1;\n")

	if err := os.WriteFile(file, []byte("a = x + 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForFile(t, out, "double a = x+2;\n")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runWatch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not stop after cancel")
	}
}

func waitForFile(t *testing.T, path, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var got string
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil {
			got = string(data)
			if got == want {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("%s = %q, want %q", path, got, want)
}
