package ast

// NeedsParentheses reports whether the child at index of parent must be
// parenthesized for the rendered text to read back with the same grouping.
//
// An operand needs parentheses when it binds looser than its parent, when it
// binds equally but sits on the side the parent does not associate towards,
// or when its text would start with '-' right after a '-'.
func NeedsParentheses(t *Tree, parent NodeID, index int) bool {
	if index < 1 || index >= t.NumChildren(parent) {
		return false
	}
	pop, ok := t.HeadOperator(parent)
	if !ok {
		// Call arguments are delimited by the call's own parentheses.
		return false
	}
	child := t.Child(parent, index)

	if afterMinus(pop, index) && startsWithMinus(t, child) {
		return true
	}
	if pop == Power && index == 1 && startsWithMinus(t, child) {
		return true
	}

	cop, ok := t.HeadOperator(child)
	if !ok {
		return false
	}
	cp, pp := cop.Priority(), pop.Priority()
	switch {
	case cp < pp:
		return true
	case cp > pp:
		return false
	}

	switch pop.Associativity() {
	case AssocPrefix:
		return false
	case AssocRight:
		return index == 1
	default:
		return index > 1
	}
}

// afterMinus reports whether the operand at index is printed right after a
// '-' symbol.
func afterMinus(op Operator, index int) bool {
	return op.Symbol() == "-" && (op.IsUnary() || index > 1)
}

// startsWithMinus reports whether id, rendered without outer parentheses and
// with operands parenthesized only where NeedsParentheses requires, begins
// with '-'. Parenthesis flags are ignored so the answer depends on structure
// alone.
func startsWithMinus(t *Tree, id NodeID) bool {
	switch t.Kind(id) {
	case KindInteger:
		v := t.ValueString(id)
		return len(v) > 0 && v[0] == '-'
	case KindFunction:
		op, ok := t.HeadOperator(id)
		if !ok {
			return false
		}
		if op.IsUnary() {
			return op.Symbol() == "-"
		}
		if t.NumChildren(id) < 2 || NeedsParentheses(t, id, 1) {
			return false
		}
		return startsWithMinus(t, t.Child(id, 1))
	}
	return false
}
