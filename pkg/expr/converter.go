package expr

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/symc/pkg/cache"
	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/expr/ast"
	"mercator-hq/symc/pkg/expr/codegen"
	symErrors "mercator-hq/symc/pkg/expr/errors"
	"mercator-hq/symc/pkg/expr/parser"
	"mercator-hq/symc/pkg/expr/transform"
	"mercator-hq/symc/pkg/telemetry"
	"mercator-hq/symc/pkg/telemetry/logging"
	"mercator-hq/symc/pkg/telemetry/metrics"
	"mercator-hq/symc/pkg/telemetry/tracing"
)

// Stage names used for spans and duration metrics.
const (
	StageParse     = "parse"
	StageTransform = "transform"
	StageGenerate  = "generate"
)

// Conversion outcomes recorded in conversions_total.
const (
	StatusSuccess = "success"
	StatusCached  = "cached"
	StatusError   = "error"
)

// fingerprintVersion changes whenever rendering changes for the same options.
const fingerprintVersion = "2"

// Result is the outcome of converting one expression.
type Result struct {
	Expression   string         `json:"expression" yaml:"expression"`
	Output       string         `json:"output" yaml:"output"`
	Nodes        int            `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Depth        int            `json:"depth,omitempty" yaml:"depth,omitempty"`
	Replacements map[string]int `json:"replacements,omitempty" yaml:"replacements,omitempty"`
	Cached       bool           `json:"cached" yaml:"cached"`
	Duration     time.Duration  `json:"duration" yaml:"duration"`
}

// Converter runs parse, transform and generate with configured options.
// It is safe for concurrent use.
type Converter struct {
	parser      *parser.Parser
	pipeline    *transform.Pipeline // nil when transforms are disabled
	generator   *codegen.Generator
	fingerprint string

	store   cache.Store
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// Option configures a Converter.
type Option func(*Converter)

// WithCache memoizes conversions in store.
func WithCache(store cache.Store) Option {
	return func(c *Converter) { c.store = store }
}

// WithTelemetry sets logger, metrics and tracer from tel.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(c *Converter) {
		if tel == nil {
			return
		}
		c.logger = tel.Logger()
		c.metrics = tel.Metrics()
		c.tracer = tel.Tracer()
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Converter) { c.metrics = collector }
}

// WithTracer sets the tracer.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(c *Converter) { c.tracer = tracer }
}

// NewConverter builds a converter from cfg. A nil cfg uses config.Default.
func NewConverter(cfg *config.Config, opts ...Option) (*Converter, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	c := &Converter{
		parser: parser.NewParser().
			WithMaxLength(cfg.Parser.MaxLength).
			WithMaxDepth(cfg.Parser.MaxDepth).
			WithFunctions(cfg.Parser.Functions),
		generator: codegen.NewGenerator().
			WithPrecedenceGuard(cfg.Codegen.PrecedenceGuard).
			WithSpacing(cfg.Codegen.Spacing).
			WithPowerFunction(cfg.Codegen.PowerFunction),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.tracer == nil {
		c.tracer = tracing.Noop()
	}
	c.logger = c.logger.Component("expr")

	var passes []string
	if cfg.Transform.Enabled {
		pipeline, err := transform.NamedPipeline(cfg.Transform.Passes)
		if err != nil {
			return nil, err
		}
		logger := c.logger
		c.pipeline = pipeline.
			WithMaxIterations(cfg.Transform.MaxIterations).
			WithObserver(func(pass string, replaced int) {
				logger.Debug("transform pass run", "pass", pass, "replaced", replaced)
			})
		passes = pipeline.Passes()
	}
	c.fingerprint = fingerprint(cfg, passes)

	return c, nil
}

// Fingerprint identifies the options that affect output. It is part of the
// cache key.
func (c *Converter) Fingerprint() string {
	return c.fingerprint
}

// Convert renders text as C. Results are served from the cache when one is
// configured; cache failures are logged and do not fail the conversion.
func (c *Converter) Convert(ctx context.Context, text string) (*Result, error) {
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, tracing.SpanConvert)
	tracing.SetExpressionAttributes(span, text, logging.GetSource(ctx))
	if runID := logging.GetRunID(ctx); runID != "" {
		span.SetAttributes(attribute.String(tracing.AttrRunID, runID))
	}

	res, err := c.convert(ctx, span, text)
	if err != nil {
		errType := string(symErrors.TypeOf(err))
		if errType == "" {
			errType = "internal"
		}
		tracing.SetErrorAttributes(span, err, errType)
		span.End()
		c.metrics.RecordError(errType)
		c.metrics.RecordConversion(StatusError, 0)
		c.logger.DebugContext(ctx, "conversion failed", "error_type", errType, "error", err)
		return nil, err
	}

	res.Duration = time.Since(start)
	status := StatusSuccess
	if res.Cached {
		status = StatusCached
	}
	c.metrics.RecordConversion(status, res.Nodes)
	tracing.End(span, nil)
	return res, nil
}

func (c *Converter) convert(ctx context.Context, span trace.Span, text string) (*Result, error) {
	key := cache.NewKey(text, c.fingerprint)
	if entry, ok := c.lookup(ctx, key); ok {
		tracing.SetCacheAttributes(span, true)
		return &Result{Expression: text, Output: entry.Output, Cached: true}, nil
	}
	if c.store != nil {
		tracing.SetCacheAttributes(span, false)
	}

	tree, root, err := c.parse(ctx, text)
	if err != nil {
		return nil, err
	}

	report, err := c.transform(ctx, tree)
	if err != nil {
		return nil, err
	}
	root = tree.Root()

	output, err := c.generate(ctx, tree, root)
	if err != nil {
		return nil, err
	}

	stats := tree.Measure(root)
	tracing.SetTreeAttributes(span, stats.Nodes, stats.Depth)
	c.recordCalls(tree, root)

	c.save(ctx, key, output)

	return &Result{
		Expression:   text,
		Output:       output,
		Nodes:        stats.Nodes,
		Depth:        stats.Depth,
		Replacements: report.Replacements,
	}, nil
}

func (c *Converter) parse(ctx context.Context, text string) (*ast.Tree, ast.NodeID, error) {
	start := time.Now()
	_, span := c.tracer.Start(ctx, tracing.SpanParse)

	tree, root, err := c.parser.Parse(text)
	c.metrics.RecordStage(StageParse, time.Since(start))
	if err == nil {
		stats := tree.Measure(root)
		tracing.SetTreeAttributes(span, stats.Nodes, stats.Depth)
	}
	tracing.End(span, err)
	return tree, root, err
}

func (c *Converter) transform(ctx context.Context, tree *ast.Tree) (transform.Report, error) {
	if c.pipeline == nil {
		return transform.Report{}, nil
	}

	start := time.Now()
	_, span := c.tracer.Start(ctx, tracing.SpanTransform)

	report, err := c.pipeline.Run(tree)
	c.metrics.RecordStage(StageTransform, time.Since(start))
	for _, pass := range c.pipeline.Passes() {
		n := report.Replacements[pass]
		tracing.AddPassEvent(span, pass, n)
		c.metrics.RecordReplacements(pass, n)
	}
	tracing.End(span, err)
	return report, err
}

func (c *Converter) generate(ctx context.Context, tree *ast.Tree, root ast.NodeID) (string, error) {
	start := time.Now()
	_, span := c.tracer.Start(ctx, tracing.SpanGenerate)

	output, err := c.generator.Convert(tree, root)
	c.metrics.RecordStage(StageGenerate, time.Since(start))
	if err == nil {
		span.SetAttributes(attribute.Int(tracing.AttrOutputLength, len(output)))
	}
	tracing.End(span, err)
	return output, err
}

func (c *Converter) lookup(ctx context.Context, key cache.Key) (*cache.Entry, bool) {
	if c.store == nil {
		return nil, false
	}
	start := time.Now()
	entry, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.metrics.RecordCacheLookup(metrics.LookupError, time.Since(start))
		c.logger.WarnContext(ctx, "cache lookup failed", "error", err)
		return nil, false
	case !ok:
		c.metrics.RecordCacheLookup(metrics.LookupMiss, time.Since(start))
		return nil, false
	}
	c.metrics.RecordCacheLookup(metrics.LookupHit, time.Since(start))
	return entry, true
}

func (c *Converter) save(ctx context.Context, key cache.Key, output string) {
	if c.store == nil {
		return
	}
	if _, err := c.store.Put(ctx, key, output); err != nil {
		if errors.Is(err, cache.ErrClosed) {
			return
		}
		c.metrics.RecordCacheWriteError()
		c.logger.WarnContext(ctx, "cache write failed", "error", err)
	}
}

// recordCalls counts calls to named functions such as sin(x).
func (c *Converter) recordCalls(tree *ast.Tree, root ast.NodeID) {
	if !c.metrics.Enabled() {
		return
	}
	for id := range tree.All(root) {
		if tree.Kind(id) != ast.KindFunction {
			continue
		}
		children := tree.Children(id)
		if len(children) > 0 && tree.Kind(children[0]) == ast.KindSymbol {
			c.metrics.RecordCall(tree.Symbol(children[0]))
		}
	}
}

func fingerprint(cfg *config.Config, passes []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "v=%s;passes=%s;guard=%t;spacing=%t;power=%s;max_length=%d;max_depth=%d",
		fingerprintVersion,
		strings.Join(passes, ","),
		cfg.Codegen.PrecedenceGuard,
		cfg.Codegen.Spacing,
		cfg.Codegen.PowerFunction,
		cfg.Parser.MaxLength,
		cfg.Parser.MaxDepth,
	)
	if len(cfg.Parser.Functions) > 0 {
		sb.WriteString(";functions=")
		for i, name := range slices.Sorted(maps.Keys(cfg.Parser.Functions)) {
			if i > 0 {
				sb.WriteByte(',')
			}
			target := cfg.Parser.Functions[name]
			if target == "" {
				target = name
			}
			fmt.Fprintf(&sb, "%s:%s", name, target)
		}
	}
	return sb.String()
}
