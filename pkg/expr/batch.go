package expr

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	symErrors "mercator-hq/symc/pkg/expr/errors"
	"mercator-hq/symc/pkg/telemetry/logging"
	"mercator-hq/symc/pkg/telemetry/tracing"
)

// DefaultDeclType is the C type of generated declarations.
const DefaultDeclType = "double"

// Batch is a list of expressions converted together.
//
// YAML form:
//
//	type: double
//	expressions:
//	  - name: area
//	    expr: w*h
//
// Text form has one expression per line, optionally "name = expr".
// Blank lines and lines starting with # are skipped.
type Batch struct {
	Type        string       `yaml:"type"`
	Expressions []BatchEntry `yaml:"expressions"`
}

// BatchEntry is one expression of a batch. Entries without a name render
// as bare statements.
type BatchEntry struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
	// Line is the source line for text batches and the 1-based entry
	// index for YAML batches.
	Line int `yaml:"-"`
}

// label identifies the entry in error messages.
func (e BatchEntry) label() string {
	if e.Name != "" {
		return e.Name
	}
	return "line " + strconv.Itoa(e.Line)
}

// LoadBatch reads a batch file. Files ending in .yaml or .yml are YAML,
// anything else is text.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &symErrors.Error{
			Type:    symErrors.ErrorTypeIO,
			Message: fmt.Sprintf("Failed to read batch file %s", path),
			Err:     err,
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseBatchYAML(data)
	default:
		return ParseBatchText(data)
	}
}

// ParseBatchYAML decodes a YAML batch and validates it.
func ParseBatchYAML(data []byte) (*Batch, error) {
	var b Batch
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil && err != io.EOF {
		return nil, &symErrors.Error{
			Type:    symErrors.ErrorTypeSyntax,
			Message: "Syntax error in batch file",
			Err:     err,
		}
	}
	for i := range b.Expressions {
		b.Expressions[i].Line = i + 1
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// ParseBatchText reads one expression per line.
func ParseBatchText(data []byte) (*Batch, error) {
	b := &Batch{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		entry := BatchEntry{Expr: text, Line: line}
		if name, expr, ok := strings.Cut(text, "="); ok {
			entry.Name = strings.TrimSpace(name)
			entry.Expr = strings.TrimSpace(expr)
		}
		b.Expressions = append(b.Expressions, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, &symErrors.Error{Type: symErrors.ErrorTypeIO, Message: "Failed to read batch", Err: err}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks names and fills in the declaration type. All problems
// are reported together.
func (b *Batch) Validate() error {
	if b.Type == "" {
		b.Type = DefaultDeclType
	}

	errs := symErrors.NewErrorList()
	if !isIdentifier(b.Type) {
		errs.Add(symErrors.New(symErrors.ErrorTypeMalformed, "declaration type %q is not a C identifier", b.Type))
	}

	seen := make(map[string]int)
	for _, e := range b.Expressions {
		if e.Name == "" {
			continue
		}
		if !isIdentifier(e.Name) {
			errs.AddWithLabel(e.label(), symErrors.New(symErrors.ErrorTypeMalformed, "name is not a C identifier"))
			continue
		}
		if prev, ok := seen[e.Name]; ok {
			errs.AddWithLabel(e.label(), symErrors.New(symErrors.ErrorTypeMalformed, "duplicate name (first defined at entry %d)", prev))
			continue
		}
		seen[e.Name] = e.Line
	}
	return errs.ToError()
}

// BatchItem is the outcome of one batch entry.
type BatchItem struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Line       int    `json:"line" yaml:"line"`
	Expression string `json:"expression" yaml:"expression"`
	Output     string `json:"output,omitempty" yaml:"output,omitempty"`
	Cached     bool   `json:"cached,omitempty" yaml:"cached,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchResult collects the outcome of RunBatch.
type BatchResult struct {
	RunID    string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Type     string        `json:"type" yaml:"type"`
	Items    []BatchItem   `json:"items" yaml:"items"`
	Failed   int           `json:"failed" yaml:"failed"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	errs *symErrors.ErrorList
}

// Err returns the aggregated conversion errors, or nil.
func (r *BatchResult) Err() error {
	if r.errs == nil {
		return nil
	}
	return r.errs.ToError()
}

// Header implements cli.Table.
func (r *BatchResult) Header() []string {
	return []string{"name", "line", "output", "error"}
}

// Rows implements cli.Table.
func (r *BatchResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		rows = append(rows, []string{it.Name, strconv.Itoa(it.Line), it.Output, it.Error})
	}
	return rows
}

// WriteC writes the successful items as C statements. Named items become
// declarations ("double a = x+1;"), unnamed ones bare statements.
func (r *BatchResult) WriteC(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, it := range r.Items {
		if it.Error != "" {
			continue
		}
		if it.Name != "" {
			fmt.Fprintf(bw, "%s %s = %s;\n", r.Type, it.Name, it.Output)
		} else {
			fmt.Fprintf(bw, "%s;\n", it.Output)
		}
	}
	return bw.Flush()
}

// ProgressFunc is called after each entry with its outcome and how many
// entries are done.
type ProgressFunc func(item BatchItem, done, total int)

// RunBatch converts every entry. Failing entries are recorded in the
// result and in Err; RunBatch itself only fails when ctx is cancelled.
func (c *Converter) RunBatch(ctx context.Context, b *Batch, progress ProgressFunc) (*BatchResult, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, tracing.SpanBatch)
	defer span.End()

	res := &BatchResult{
		RunID: logging.GetRunID(ctx),
		Type:  b.Type,
		Items: make([]BatchItem, 0, len(b.Expressions)),
		errs:  symErrors.NewErrorList(),
	}
	if res.Type == "" {
		res.Type = DefaultDeclType
	}

	for i, e := range b.Expressions {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		item := BatchItem{Name: e.Name, Line: e.Line, Expression: e.Expr}
		out, err := c.Convert(logging.WithExpression(ctx, e.label()), e.Expr)
		if err != nil {
			item.Error = err.Error()
			res.errs.AddWithLabel(e.label(), err)
			res.Failed++
		} else {
			item.Output = out.Output
			item.Cached = out.Cached
		}
		res.Items = append(res.Items, item)

		if progress != nil {
			progress(item, i+1, len(b.Expressions))
		}
	}

	res.Duration = time.Since(start)
	c.logger.InfoContext(ctx, "batch converted",
		"expressions", len(res.Items),
		"failed", res.Failed,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// isIdentifier reports whether s is a C identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
