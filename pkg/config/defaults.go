package config

import "time"

// Default values for configuration fields.
const (
	// Parser defaults
	DefaultParserMaxLength = 65536
	DefaultParserMaxDepth  = 1000

	// Transform defaults
	DefaultTransformEnabled       = true
	DefaultTransformMaxIterations = 8

	// Cache defaults
	DefaultCacheEnabled             = false
	DefaultCacheDriver              = "sqlite"
	DefaultCachePath                = "data/symc-cache.db"
	DefaultCacheBusyTimeout         = 5 * time.Second
	DefaultCacheRetentionSchedule   = "0 3 * * *"
	DefaultCacheRetentionMaxAge     = 30 * 24 * time.Hour
	DefaultCacheRetentionMaxEntries = 0

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "console"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "symc"
	DefaultTracingEnabled     = false
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingServiceName = "symc"
	DefaultOTLPInsecure       = true
	DefaultOTLPTimeout        = 10 * time.Second
)

// DefaultTransformPasses is the default pass order.
var DefaultTransformPasses = []string{
	"remove-minus-mult",
	"fold-minus",
	"remove-redundant-parenthesis",
}

// DefaultWatchExtensions are the file extensions watched by default.
var DefaultWatchExtensions = []string{".yaml", ".yml", ".txt"}

// DefaultDurationBuckets are the default stage duration buckets in seconds.
var DefaultDurationBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1}

// DefaultTreeSizeBuckets are the default tree size buckets in nodes.
var DefaultTreeSizeBuckets = []float64{1, 5, 10, 50, 100, 500, 1000, 10000}

// Default returns a configuration with every field at its default value.
//
// Boolean fields whose default is true cannot be told apart from an
// explicit false after unmarshalling, so LoadConfig decodes YAML on top of
// Default instead of relying on ApplyDefaults for them.
func Default() *Config {
	cfg := &Config{
		Transform: TransformConfig{
			Enabled: DefaultTransformEnabled,
		},
		Cache: CacheConfig{
			Enabled: DefaultCacheEnabled,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
			Tracing: TracingConfig{
				Enabled: DefaultTracingEnabled,
				OTLP: OTLPConfig{
					Insecure: DefaultOTLPInsecure,
				},
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Parser defaults
	if cfg.Parser.MaxLength == 0 {
		cfg.Parser.MaxLength = DefaultParserMaxLength
	}
	if cfg.Parser.MaxDepth == 0 {
		cfg.Parser.MaxDepth = DefaultParserMaxDepth
	}

	// Transform defaults
	if cfg.Transform.Passes == nil {
		cfg.Transform.Passes = append([]string(nil), DefaultTransformPasses...)
	}
	if cfg.Transform.MaxIterations == 0 {
		cfg.Transform.MaxIterations = DefaultTransformMaxIterations
	}

	// Cache defaults
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = DefaultCacheDriver
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath
	}
	if cfg.Cache.BusyTimeout == 0 {
		cfg.Cache.BusyTimeout = DefaultCacheBusyTimeout
	}
	if cfg.Cache.Retention.Schedule == "" {
		cfg.Cache.Retention.Schedule = DefaultCacheRetentionSchedule
	}
	if cfg.Cache.Retention.MaxAge == 0 {
		cfg.Cache.Retention.MaxAge = DefaultCacheRetentionMaxAge
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = append([]string(nil), DefaultWatchExtensions...)
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if len(cfg.Metrics.TreeSizeBuckets) == 0 {
		cfg.Metrics.TreeSizeBuckets = append([]float64(nil), DefaultTreeSizeBuckets...)
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 && cfg.Tracing.Sampler == "ratio" {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.OTLP.Timeout == 0 {
		cfg.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
