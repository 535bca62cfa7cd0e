package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"mercator-hq/symc/pkg/config"
)

func TestNew(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	tel, err := New(&cfg, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer tel.Shutdown(context.Background())

	tel.Logger().Info("converted", "nodes", 3)
	if !strings.Contains(buf.String(), `"msg":"converted"`) {
		t.Errorf("log output = %q, want JSON record", buf.String())
	}
	if !tel.Metrics().Enabled() {
		t.Error("Metrics().Enabled() = false, want true")
	}
	if tel.Tracer().Enabled() {
		t.Error("Tracer().Enabled() = true, want false by default")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("New(nil) error = nil")
	}

	cfg := config.Default().Telemetry
	cfg.Logging.Level = "loud"
	if _, err := New(&cfg, nil); err == nil {
		t.Error("New() with bad level error = nil")
	}
}

func TestDiscard(t *testing.T) {
	tel := Discard()
	tel.Metrics().RecordConversion("success", 1)
	_, span := tel.Tracer().Start(context.Background(), "expr.convert")
	span.End()
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
