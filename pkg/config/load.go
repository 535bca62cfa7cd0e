package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "SYMC_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML on top of Default and applies defaults to any field
// left empty. Unknown keys are rejected. The result is not validated.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SYMC_SECTION_FIELD (e.g., SYMC_CACHE_DRIVER).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
//
// An empty path starts from Default instead of a file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format SYMC_SECTION_FIELD. A value that
// cannot be parsed for its field is reported as a ValidationError.
func applyEnvOverrides(cfg *Config) error {
	o := &overrides{}

	// Parser overrides
	o.int("PARSER_MAX_LENGTH", &cfg.Parser.MaxLength)
	o.int("PARSER_MAX_DEPTH", &cfg.Parser.MaxDepth)

	// Codegen overrides
	o.bool("CODEGEN_PRECEDENCE_GUARD", &cfg.Codegen.PrecedenceGuard)
	o.bool("CODEGEN_SPACING", &cfg.Codegen.Spacing)
	o.string("CODEGEN_POWER_FUNCTION", &cfg.Codegen.PowerFunction)

	// Transform overrides
	o.bool("TRANSFORM_ENABLED", &cfg.Transform.Enabled)
	o.list("TRANSFORM_PASSES", &cfg.Transform.Passes)
	o.int("TRANSFORM_MAX_ITERATIONS", &cfg.Transform.MaxIterations)

	// Cache overrides
	o.bool("CACHE_ENABLED", &cfg.Cache.Enabled)
	o.string("CACHE_DRIVER", &cfg.Cache.Driver)
	o.string("CACHE_PATH", &cfg.Cache.Path)
	o.duration("CACHE_BUSY_TIMEOUT", &cfg.Cache.BusyTimeout)
	o.string("CACHE_RETENTION_SCHEDULE", &cfg.Cache.Retention.Schedule)
	o.duration("CACHE_RETENTION_MAX_AGE", &cfg.Cache.Retention.MaxAge)
	o.int("CACHE_RETENTION_MAX_ENTRIES", &cfg.Cache.Retention.MaxEntries)

	// Watch overrides
	o.duration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	o.list("WATCH_EXTENSIONS", &cfg.Watch.Extensions)
	o.string("WATCH_METRICS_ADDRESS", &cfg.Watch.MetricsAddress)

	// Telemetry overrides
	o.string("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	o.string("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	o.bool("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	o.bool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	o.string("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	o.string("TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	o.bool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	o.string("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	o.float("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	o.string("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	o.string("TELEMETRY_TRACING_SERVICE_NAME", &cfg.Telemetry.Tracing.ServiceName)
	o.bool("TELEMETRY_TRACING_OTLP_INSECURE", &cfg.Telemetry.Tracing.OTLP.Insecure)

	if len(o.errs) > 0 {
		return ValidationError{Errors: o.errs}
	}
	return nil
}

// overrides reads SYMC_* variables into config fields and collects the
// ones that fail to parse.
type overrides struct {
	errs []FieldError
}

func (o *overrides) lookup(name string) (string, bool) {
	val, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func (o *overrides) fail(name, val, kind string) {
	o.errs = append(o.errs, FieldError{
		Field:   EnvPrefix + name,
		Message: fmt.Sprintf("invalid %s %q", kind, val),
	})
}

func (o *overrides) string(name string, dst *string) {
	if val, ok := o.lookup(name); ok {
		*dst = val
	}
}

func (o *overrides) list(name string, dst *[]string) {
	val, ok := o.lookup(name)
	if !ok {
		return
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}

func (o *overrides) bool(name string, dst *bool) {
	if val, ok := o.lookup(name); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			o.fail(name, val, "boolean")
			return
		}
		*dst = b
	}
}

func (o *overrides) int(name string, dst *int) {
	if val, ok := o.lookup(name); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			o.fail(name, val, "integer")
			return
		}
		*dst = i
	}
}

func (o *overrides) float(name string, dst *float64) {
	if val, ok := o.lookup(name); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			o.fail(name, val, "number")
			return
		}
		*dst = f
	}
}

func (o *overrides) duration(name string, dst *time.Duration) {
	if val, ok := o.lookup(name); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			o.fail(name, val, "duration")
			return
		}
		*dst = d
	}
}
