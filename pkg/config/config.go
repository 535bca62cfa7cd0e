package config

import "time"

// Config is the root configuration structure for symc.
// It contains the settings for parsing, transformation, C generation,
// the conversion cache, watch mode, and telemetry.
type Config struct {
	// Parser contains limits and call-head registrations for the
	// expression parser.
	Parser ParserConfig `yaml:"parser"`

	// Codegen controls how trees are rendered as C expressions.
	Codegen CodegenConfig `yaml:"codegen"`

	// Transform selects the rewrite passes applied before rendering.
	Transform TransformConfig `yaml:"transform"`

	// Cache contains configuration for the conversion cache.
	Cache CacheConfig `yaml:"cache"`

	// Watch contains configuration for `symc watch`.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ParserConfig contains configuration for the expression parser.
type ParserConfig struct {
	// MaxLength is the maximum accepted length of an expression in bytes.
	// Default: 65536
	MaxLength int `yaml:"max_length"`

	// MaxDepth is the maximum nesting depth of an expression.
	// Default: 1000
	MaxDepth int `yaml:"max_depth"`

	// Functions maps call heads to the C function they render as.
	// An empty target keeps the head name.
	// Example: {"Sin": "sin", "Sqrt": "sqrt"}
	Functions map[string]string `yaml:"functions"`
}

// CodegenConfig contains configuration for C expression rendering.
type CodegenConfig struct {
	// PrecedenceGuard adds parentheses wherever operator precedence would
	// otherwise change the meaning of the output, regardless of the
	// tree's parenthesis flags.
	// Default: false
	PrecedenceGuard bool `yaml:"precedence_guard"`

	// Spacing separates binary operators with spaces ("a + b").
	// Default: false
	Spacing bool `yaml:"spacing"`

	// PowerFunction renders Power nodes as a call to this function
	// (e.g. "pow") instead of the '^' operator. Empty keeps '^'.
	PowerFunction string `yaml:"power_function"`
}

// TransformConfig contains configuration for the rewrite pipeline.
type TransformConfig struct {
	// Enabled controls whether passes run before rendering.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Passes lists the passes to run, in order.
	// Default: ["remove-minus-mult", "fold-minus", "remove-redundant-parenthesis"]
	Passes []string `yaml:"passes"`

	// MaxIterations bounds how often a single pass is re-applied.
	// Default: 8
	MaxIterations int `yaml:"max_iterations"`
}

// CacheConfig contains configuration for the conversion cache.
type CacheConfig struct {
	// Enabled controls whether conversions are memoized.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the SQLite driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file path.
	// Default: "data/symc-cache.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Retention controls pruning of old entries.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains cache retention configuration.
type RetentionConfig struct {
	// Schedule is the cron expression for periodic pruning in watch mode.
	// Default: "0 3 * * *" (3 AM daily)
	Schedule string `yaml:"schedule"`

	// MaxAge removes entries not used for longer than this. Zero keeps
	// entries regardless of age.
	// Default: 720h (30 days)
	MaxAge time.Duration `yaml:"max_age"`

	// MaxEntries keeps at most this many entries, most recently used
	// first. Zero means unlimited.
	// Default: 0
	MaxEntries int `yaml:"max_entries"`
}

// WatchConfig contains configuration for watch mode.
type WatchConfig struct {
	// Debounce coalesces bursts of file events.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// Extensions limits watched files by extension. Empty watches all files.
	// Default: [".yaml", ".yml", ".txt"]
	Extensions []string `yaml:"extensions"`

	// MetricsAddress serves /metrics while watching. Empty disables it.
	// Example: "127.0.0.1:9090"
	MetricsAddress string `yaml:"metrics_address"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "symc"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: ""
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for stage durations (seconds).
	// Default: [0.00001, 0.0001, 0.001, 0.01, 0.1, 1]
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// TreeSizeBuckets defines histogram buckets for tree node counts.
	// Default: [1, 5, 10, 50, 100, 500, 1000, 10000]
	TreeSizeBuckets []float64 `yaml:"tree_size_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio", "batch" (every batch run, plus
	// SampleRatio of single conversions)
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Used when Sampler is "ratio" or "batch".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "symc"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
