package transform

import (
	"strings"

	"mercator-hq/symc/pkg/expr/ast"
)

// Pass is a named Rule run by a Pipeline.
type Pass interface {
	Rule
	Name() string
}

// Pass names accepted by PassByName.
const (
	PassRemoveMinusMult            = "remove-minus-mult"
	PassFoldMinus                  = "fold-minus"
	PassRemoveRedundantParenthesis = "remove-redundant-parenthesis"
)

// PassNames returns the built-in passes in their default order.
func PassNames() []string {
	return []string{PassRemoveMinusMult, PassFoldMinus, PassRemoveRedundantParenthesis}
}

// PassByName returns a built-in pass.
func PassByName(name string) (Pass, bool) {
	switch name {
	case PassRemoveMinusMult:
		return RemoveMinusMult{}, true
	case PassFoldMinus:
		return FoldMinus{}, true
	case PassRemoveRedundantParenthesis:
		return RemoveRedundantParenthesis{}, true
	}
	return nil, false
}

// RemoveMinusMult rewrites Times[-1, x] as UnaryMinus[x], and
// Times[-1, x, y, ...] as UnaryMinus[Times[x, y, ...]].
type RemoveMinusMult struct{}

// Name implements Pass.
func (RemoveMinusMult) Name() string { return PassRemoveMinusMult }

// Visit implements Rule.
func (RemoveMinusMult) Visit(t *ast.Tree, id ast.NodeID, q Queue) {
	op, ok := t.HeadOperator(id)
	if !ok || op != ast.Times || t.NumChildren(id) < 3 {
		return
	}
	first := t.Child(id, 1)
	if t.Kind(first) != ast.KindInteger || t.ValueString(first) != "-1" {
		return
	}

	rest := make([]ast.NodeID, 0, t.NumChildren(id)-2)
	for i := 2; i < t.NumChildren(id); i++ {
		rest = append(rest, t.Copy(t.Child(id, i)))
	}

	operand := rest[0]
	if len(rest) > 1 {
		product, err := t.NewApply(ast.Times, rest...)
		if err != nil {
			return
		}
		operand = product
	}

	neg, err := t.NewApply(ast.UnaryMinus, operand)
	if err != nil {
		return
	}
	q.Replace(id, neg)
}

// FoldMinus rewrites sums with negated terms as subtractions:
// Plus[a, b, UnaryMinus[c], d] becomes Plus[Minus[Plus[a, b], c], d], and a
// negative literal term Plus[a, -5] becomes Minus[a, 5]. The first term is
// never folded.
type FoldMinus struct{}

// Name implements Pass.
func (FoldMinus) Name() string { return PassFoldMinus }

// Visit implements Rule.
func (FoldMinus) Visit(t *ast.Tree, id ast.NodeID, q Queue) {
	op, ok := t.HeadOperator(id)
	if !ok || op != ast.Plus || t.NumChildren(id) < 3 {
		return
	}

	found := false
	for i := 2; i < t.NumChildren(id); i++ {
		if isNegated(t, t.Child(id, i)) {
			found = true
			break
		}
	}
	if !found {
		return
	}

	run := []ast.NodeID{t.Copy(t.Child(id, 1))}
	for i := 2; i < t.NumChildren(id); i++ {
		term := t.Child(id, i)
		if !isNegated(t, term) {
			run = append(run, t.Copy(term))
			continue
		}
		positive := negate(t, term)
		left, err := sum(t, run)
		if err != nil {
			return
		}
		diff, err := t.NewApply(ast.Minus, left, positive)
		if err != nil {
			return
		}
		run = []ast.NodeID{diff}
	}

	result, err := sum(t, run)
	if err != nil {
		return
	}
	q.Replace(id, result)
}

// isNegated reports whether term is UnaryMinus[x] or a negative literal.
// UnaryMinus of a negative literal is left alone.
func isNegated(t *ast.Tree, term ast.NodeID) bool {
	switch t.Kind(term) {
	case ast.KindInteger:
		return isNegativeLiteral(t, term)
	case ast.KindFunction:
		op, ok := t.HeadOperator(term)
		return ok && op == ast.UnaryMinus && t.NumChildren(term) == 2 &&
			!isNegativeLiteral(t, t.Child(term, 1))
	}
	return false
}

func isNegativeLiteral(t *ast.Tree, id ast.NodeID) bool {
	if t.Kind(id) != ast.KindInteger {
		return false
	}
	v := t.ValueString(id)
	return len(v) > 1 && v[0] == '-' && v[1] != '-'
}

// negate returns a fresh node for x, given a term accepted by isNegated.
func negate(t *ast.Tree, term ast.NodeID) ast.NodeID {
	if t.Kind(term) == ast.KindInteger {
		return t.NewInteger(strings.TrimPrefix(t.ValueString(term), "-"))
	}
	return t.Copy(t.Child(term, 1))
}

func sum(t *ast.Tree, terms []ast.NodeID) (ast.NodeID, error) {
	if len(terms) == 1 {
		return terms[0], nil
	}
	return t.NewApply(ast.Plus, terms...)
}

// RemoveRedundantParenthesis clears the parenthesis flag of every Function
// that does not need it: the root, and operands that bind at least as
// tightly as their parent on the side the parent associates towards. It
// never sets a flag.
type RemoveRedundantParenthesis struct{}

// Name implements Pass.
func (RemoveRedundantParenthesis) Name() string { return PassRemoveRedundantParenthesis }

// Visit implements Rule.
func (RemoveRedundantParenthesis) Visit(t *ast.Tree, id ast.NodeID, _ Queue) {
	if t.Kind(id) != ast.KindFunction || !t.HasParenthesis(id) {
		return
	}
	parent := t.Parent(id)
	if parent == ast.NoNode {
		t.SetHasParenthesis(id, false)
		return
	}
	if !ast.NeedsParentheses(t, parent, t.IndexInParent(id)) {
		t.SetHasParenthesis(id, false)
	}
}
