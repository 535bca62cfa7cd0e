package transform

import (
	"fmt"

	"mercator-hq/symc/pkg/expr/ast"
	symErrors "mercator-hq/symc/pkg/expr/errors"
)

// DefaultMaxIterations bounds how often one pass is re-run.
const DefaultMaxIterations = 8

// Observer is told how many replacements each pass run applied.
type Observer func(pass string, replaced int)

// Pipeline runs passes in order. Each pass is repeated until a run applies
// no replacement or the iteration limit is reached.
type Pipeline struct {
	passes        []Pass
	maxIterations int
	observer      Observer
}

// Report summarizes a pipeline run.
type Report struct {
	Replacements map[string]int // Replacements applied, by pass name
	Iterations   map[string]int // Runs, by pass name
}

// Total returns the number of replacements across all passes.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Replacements {
		n += c
	}
	return n
}

// NewPipeline creates a pipeline running passes in order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{
		passes:        passes,
		maxIterations: DefaultMaxIterations,
	}
}

// DefaultPipeline runs every built-in pass in PassNames order.
func DefaultPipeline() *Pipeline {
	p, _ := NamedPipeline(PassNames())
	return p
}

// NamedPipeline builds a pipeline from built-in pass names.
func NamedPipeline(names []string) (*Pipeline, error) {
	passes := make([]Pass, 0, len(names))
	for _, name := range names {
		pass, ok := PassByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown transform pass %q (valid: %v)", name, PassNames())
		}
		passes = append(passes, pass)
	}
	return NewPipeline(passes...), nil
}

// WithMaxIterations sets the per-pass iteration limit. Values below 1 are ignored.
func (p *Pipeline) WithMaxIterations(n int) *Pipeline {
	if n >= 1 {
		p.maxIterations = n
	}
	return p
}

// WithObserver registers a callback invoked after every pass run.
func (p *Pipeline) WithObserver(obs Observer) *Pipeline {
	p.observer = obs
	return p
}

// Passes returns the names of the configured passes.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// Run applies the pipeline to the tree's root.
func (p *Pipeline) Run(t *ast.Tree) (Report, error) {
	report := Report{
		Replacements: make(map[string]int),
		Iterations:   make(map[string]int),
	}
	if t == nil {
		return report, symErrors.NullArgument("tree")
	}

	for _, pass := range p.passes {
		for i := 0; i < p.maxIterations; i++ {
			q := NewReplaceQueue()
			if err := ApplyAll(t, t.Root(), q, pass); err != nil {
				return report, err
			}
			applied, err := q.Flush(t)
			if err != nil {
				return report, fmt.Errorf("pass %s: %w", pass.Name(), err)
			}

			report.Iterations[pass.Name()]++
			report.Replacements[pass.Name()] += applied
			if p.observer != nil {
				p.observer(pass.Name(), applied)
			}
			if applied == 0 {
				break
			}
		}
	}
	return report, nil
}
