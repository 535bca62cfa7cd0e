package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid JSON config", Config{Level: "info", Format: "json"}, false},
		{"valid text config", Config{Level: "debug", Format: "text"}, false},
		{"valid console config", Config{Level: "warn", Format: "console"}, false},
		{"defaults", Config{}, false},
		{"uppercase level", Config{Level: "ERROR"}, false},
		{"invalid log level", Config{Level: "invalid", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "invalid"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Component("codegen").Info("expression converted", "nodes", 7)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "expression converted" {
		t.Errorf("msg = %v, want %q", entry["msg"], "expression converted")
	}
	if entry["component"] != "codegen" {
		t.Errorf("component = %v, want %q", entry["component"], "codegen")
	}
	if entry["nodes"] != float64(7) {
		t.Errorf("nodes = %v, want 7", entry["nodes"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, _ := New(Config{Level: "warn", Format: "text", Writer: buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("output contains filtered messages:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("output missing warn/error messages:\n%s", out)
	}
	if logger.Enabled(slog.LevelInfo) {
		t.Error("Enabled(info) = true at warn level")
	}
}

func TestLogger_ContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, _ := New(Config{Level: "debug", Format: "text", Writer: buf})

	ctx := WithRunID(context.Background(), "run-123")
	ctx = WithExpression(ctx, "energy")
	ctx = WithSource(ctx, "exprs.yaml")
	logger.InfoContext(ctx, "converted")

	out := buf.String()
	for _, want := range []string{"run_id=run-123", "expression=energy", "source=exprs.yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	logger.WithContext(WithTraceID(context.Background(), "abc")).Warn("slow")
	if !strings.Contains(buf.String(), "trace_id=abc") {
		t.Errorf("WithContext output missing trace_id:\n%s", buf.String())
	}
}

func TestLogger_ConsoleDropsTime(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, _ := New(Config{Format: "console", Writer: buf})
	logger.Info("hello")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console output contains time: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("console output = %q, want msg=hello", buf.String())
	}
}

func TestContextGetters_Empty(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" || GetExpression(ctx) != "" || GetSource(ctx) != "" || GetTraceID(ctx) != "" {
		t.Error("getters on empty context returned values")
	}
	if fields := extractContextFields(ctx); len(fields) != 0 {
		t.Errorf("extractContextFields() = %v, want empty", fields)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("dropped")
	if logger.Enabled(slog.LevelError) {
		t.Error("Discard().Enabled(error) = true")
	}
	if err := logger.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
