package codegen

import (
	"strings"

	"mercator-hq/symc/pkg/expr/ast"
	symErrors "mercator-hq/symc/pkg/expr/errors"
)

// Generator converts expression trees to text.
type Generator struct {
	guardPrecedence bool
	spaced          bool
	powerFunction   string
}

// NewGenerator creates a generator with the default options: the explicit
// parenthesis flag is authoritative and no spaces are emitted.
func NewGenerator() *Generator {
	return &Generator{}
}

// WithPrecedenceGuard forces parentheses around operands whose grouping would
// otherwise change when re-read with C precedence, even if their flag is false.
func (g *Generator) WithPrecedenceGuard(enabled bool) *Generator {
	g.guardPrecedence = enabled
	return g
}

// WithSpacing puts a space on both sides of binary operator symbols.
func (g *Generator) WithSpacing(enabled bool) *Generator {
	g.spaced = enabled
	return g
}

// WithPowerFunction renders Power[a, b] as a call, e.g. "pow(a, b)", instead
// of "a^b". An empty name keeps the infix form.
func (g *Generator) WithPowerFunction(name string) *Generator {
	g.powerFunction = name
	return g
}

// Convert renders the subtree rooted at id.
func (g *Generator) Convert(t *ast.Tree, id ast.NodeID) (string, error) {
	if t == nil {
		return "", symErrors.NullArgument("tree")
	}
	if !t.Contains(id) {
		return "", symErrors.NullArgument("node")
	}
	var sb strings.Builder
	if err := g.render(&sb, t, id, false); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ConvertRoot renders the tree's root.
func (g *Generator) ConvertRoot(t *ast.Tree) (string, error) {
	if t == nil {
		return "", symErrors.NullArgument("tree")
	}
	return g.Convert(t, t.Root())
}

func (g *Generator) render(sb *strings.Builder, t *ast.Tree, id ast.NodeID, forceParens bool) error {
	switch t.Kind(id) {
	case ast.KindSymbol:
		sb.WriteString(t.Symbol(id))
		return nil
	case ast.KindInteger:
		if forceParens {
			sb.WriteByte('(')
			sb.WriteString(t.ValueString(id))
			sb.WriteByte(')')
			return nil
		}
		sb.WriteString(t.ValueString(id))
		return nil
	case ast.KindOperator:
		op := t.Operator(id)
		if !op.IsValid() {
			return symErrors.Malformed("operator node %d has no operator", id)
		}
		sb.WriteString(op.Symbol())
		return nil
	case ast.KindFunction:
		paren := t.HasParenthesis(id) || forceParens
		if paren {
			sb.WriteByte('(')
		}
		if err := g.renderFunction(sb, t, id); err != nil {
			return err
		}
		if paren {
			sb.WriteByte(')')
		}
		return nil
	}
	return symErrors.New(symErrors.ErrorTypeMalformed, "node %d has unknown kind %q", id, string(t.Kind(id)))
}

func (g *Generator) renderFunction(sb *strings.Builder, t *ast.Tree, id ast.NodeID) error {
	n := t.NumChildren(id)
	if n == 0 {
		return symErrors.Malformed("function node %d has no children", id)
	}

	head := t.Child(id, 0)
	switch t.Kind(head) {
	case ast.KindOperator:
		return g.renderOperator(sb, t, id, t.Operator(head))
	case ast.KindSymbol:
		return g.renderCall(sb, t, id, t.Symbol(head), 1)
	}
	return symErrors.Malformed("function node %d has %s head", id, t.Kind(head))
}

func (g *Generator) renderOperator(sb *strings.Builder, t *ast.Tree, id ast.NodeID, op ast.Operator) error {
	operands := t.NumChildren(id) - 1
	if !op.IsValid() {
		return symErrors.Malformed("function node %d has no operator", id)
	}
	if !op.AcceptsOperands(operands) {
		return symErrors.Malformed("%s applied to %d operand(s) in %s", op, operands, t.FullForm(id))
	}

	if op == ast.Power && g.powerFunction != "" {
		return g.renderCall(sb, t, id, g.powerFunction, 1)
	}

	if op.IsUnary() {
		sb.WriteString(op.Symbol())
		return g.renderOperand(sb, t, id, 1)
	}

	sep := op.Symbol()
	if g.spaced {
		sep = " " + sep + " "
	}
	for i := 1; i <= operands; i++ {
		if i > 1 {
			sb.WriteString(sep)
		}
		if err := g.renderOperand(sb, t, id, i); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) renderOperand(sb *strings.Builder, t *ast.Tree, parent ast.NodeID, index int) error {
	child := t.Child(parent, index)
	// Literals have no parenthesis flag, so a negative one is grouped
	// whenever its sign would fuse with the parent ("a--5", "-2^x").
	force := (g.guardPrecedence || t.Kind(child) == ast.KindInteger) &&
		ast.NeedsParentheses(t, parent, index)
	return g.render(sb, t, child, force)
}

func (g *Generator) renderCall(sb *strings.Builder, t *ast.Tree, id ast.NodeID, name string, first int) error {
	if name == "" {
		return symErrors.Malformed("call node %d has an empty function name", id)
	}
	sb.WriteString(name)
	sb.WriteByte('(')
	for i := first; i < t.NumChildren(id); i++ {
		if i > first {
			sb.WriteString(", ")
		}
		if err := g.render(sb, t, t.Child(id, i), false); err != nil {
			return err
		}
	}
	sb.WriteByte(')')
	return nil
}
