// Package parser builds typed expression trees (package ast) from text.
//
// Text is first parsed into a generic tree by package syntax, then each
// generic node is converted by kind: integer literals become Integer nodes,
// symbols become Symbol nodes, and applications become Function nodes whose
// first child is the Operator-node resolved from the head name.
//
//	p := parser.NewParser()
//	tree, root, err := p.Parse("Plus[a, b]")
//
// Heads that are not catalog operators fail with ErrorTypeUnknownOperator
// unless they were registered as calls with WithFunction, in which case they
// are kept as a Symbol head naming the target function.
package parser
