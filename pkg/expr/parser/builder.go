package parser

import (
	"fmt"

	"mercator-hq/symc/pkg/expr/ast"
	symErrors "mercator-hq/symc/pkg/expr/errors"
	"mercator-hq/symc/pkg/expr/syntax"
)

// builder converts generic syntax nodes into typed nodes of one tree.
type builder struct {
	tree      *ast.Tree
	functions map[string]string
}

func (b *builder) build(n syntax.Node) (ast.NodeID, error) {
	switch n := n.(type) {
	case nil:
		return ast.NoNode, symErrors.NullArgument("node")
	case *syntax.Integer:
		if n == nil {
			return ast.NoNode, symErrors.NullArgument("node")
		}
		return b.tree.NewInteger(n.Text), nil
	case *syntax.Symbol:
		if n == nil {
			return ast.NoNode, symErrors.NullArgument("node")
		}
		return b.tree.NewSymbol(n.Name), nil
	case *syntax.Function:
		if n == nil {
			return ast.NoNode, symErrors.NullArgument("node")
		}
		return b.buildFunction(n)
	}
	return ast.NoNode, symErrors.New(symErrors.ErrorTypeMalformed, "unsupported syntax node %T", n)
}

func (b *builder) buildFunction(fn *syntax.Function) (ast.NodeID, error) {
	name, ok := fn.HeadName()
	if !ok {
		return ast.NoNode, &symErrors.Error{
			Type:     symErrors.ErrorTypeMalformed,
			Message:  fmt.Sprintf("function head %s is not a symbol", describe(fn.Head)),
			Position: fn.Pos(),
		}
	}

	head, err := b.buildHead(name, fn.Pos())
	if err != nil {
		return ast.NoNode, err
	}

	children := make([]ast.NodeID, 0, len(fn.Args)+1)
	children = append(children, head)
	for _, arg := range fn.Args {
		id, err := b.build(arg)
		if err != nil {
			return ast.NoNode, err
		}
		children = append(children, id)
	}

	return b.tree.NewFunction(children...)
}

// buildHead resolves a head name to an Operator-node, or to a Symbol for a
// registered call.
func (b *builder) buildHead(name string, pos syntax.Position) (ast.NodeID, error) {
	op, err := ast.ParseOperator(name)
	if err == nil {
		return b.tree.NewOperator(op)
	}
	if target, ok := b.functions[name]; ok {
		return b.tree.NewSymbol(target), nil
	}
	if e, ok := err.(*symErrors.Error); ok {
		e.Position = pos
	}
	return ast.NoNode, err
}

func describe(n syntax.Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q", n.String())
}
