package parser

import (
	"fmt"
	"os"

	"mercator-hq/symc/pkg/expr/ast"
	symErrors "mercator-hq/symc/pkg/expr/errors"
	"mercator-hq/symc/pkg/expr/syntax"
)

// Parser converts expression text into typed trees.
type Parser struct {
	maxLength int               // Maximum input length in bytes (0 = unlimited)
	maxDepth  int               // Maximum nesting depth (0 = syntax default)
	functions map[string]string // Call heads allowed besides operators, mapped to target names
}

// NewParser creates a parser with no input limits and no extra functions.
func NewParser() *Parser {
	return &Parser{
		functions: make(map[string]string),
	}
}

// WithMaxLength limits the input size in bytes. Zero disables the limit.
func (p *Parser) WithMaxLength(n int) *Parser {
	p.maxLength = n
	return p
}

// WithMaxDepth limits expression nesting.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// WithFunction allows calls to name, rendered as calls to target.
// An empty target keeps the name.
func (p *Parser) WithFunction(name, target string) *Parser {
	if target == "" {
		target = name
	}
	p.functions[name] = target
	return p
}

// WithFunctions registers several calls at once.
func (p *Parser) WithFunctions(fns map[string]string) *Parser {
	for name, target := range fns {
		p.WithFunction(name, target)
	}
	return p
}

// Parse parses text into a new tree and returns it with its root.
func (p *Parser) Parse(text string) (*ast.Tree, ast.NodeID, error) {
	if p.maxLength > 0 && len(text) > p.maxLength {
		return nil, ast.NoNode, &symErrors.Error{
			Type:    symErrors.ErrorTypeSyntax,
			Message: fmt.Sprintf("Syntax error: expression length %d exceeds maximum %d bytes", len(text), p.maxLength),
		}
	}

	var opts []syntax.Option
	if p.maxDepth > 0 {
		opts = append(opts, syntax.WithMaxDepth(p.maxDepth))
	}
	generic, err := syntax.Parse(text, opts...)
	if err != nil {
		return nil, ast.NoNode, err
	}

	tree := ast.NewTree()
	root, err := p.ToNode(tree, generic)
	if err != nil {
		if e, ok := err.(*symErrors.Error); ok {
			err = symErrors.WithInput(e, text)
		}
		return nil, ast.NoNode, err
	}
	if err := tree.SetRoot(root); err != nil {
		return nil, ast.NoNode, err
	}
	return tree, root, nil
}

// ParseFile parses the expression stored in a file.
func (p *Parser) ParseFile(path string) (*ast.Tree, ast.NodeID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ast.NoNode, &symErrors.Error{
			Type:    symErrors.ErrorTypeIO,
			Message: fmt.Sprintf("Failed to read expression file %s", path),
			Err:     err,
		}
	}
	return p.Parse(string(data))
}

// ToNode converts a generic node into tree and returns the new node, which
// is left detached. On failure the nodes built so far are removed again.
func (p *Parser) ToNode(tree *ast.Tree, n syntax.Node) (ast.NodeID, error) {
	if tree == nil {
		return ast.NoNode, symErrors.NullArgument("tree")
	}
	mark := tree.Len()
	b := &builder{tree: tree, functions: p.functions}
	id, err := b.build(n)
	if err != nil {
		// Nothing built here is attached to older nodes.
		_ = tree.Truncate(mark)
		return ast.NoNode, err
	}
	return id, nil
}
