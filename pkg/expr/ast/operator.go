package ast

import (
	symErrors "mercator-hq/symc/pkg/expr/errors"
)

// Operator is one of the supported arithmetic operators. The value is the
// operator's identifier as it appears in FullForm heads ("Plus", "Times").
type Operator string

const (
	OperatorInvalid Operator = ""
	Plus            Operator = "Plus"
	Minus           Operator = "Minus"
	Times           Operator = "Times"
	Power           Operator = "Power"
	UnaryMinus      Operator = "UnaryMinus"
)

// Associativity describes how an operator groups with itself.
type Associativity string

const (
	AssocLeft   Associativity = "left"
	AssocRight  Associativity = "right"
	AssocPrefix Associativity = "prefix"
)

// Unbounded is the MaxOperands value of variadic operators.
const Unbounded = -1

type operatorInfo struct {
	symbol      string
	priority    int
	minOperands int
	maxOperands int
	assoc       Associativity
}

var catalog = map[Operator]operatorInfo{
	Plus:       {symbol: "+", priority: 2, minOperands: 2, maxOperands: Unbounded, assoc: AssocLeft},
	Minus:      {symbol: "-", priority: 2, minOperands: 2, maxOperands: 2, assoc: AssocLeft},
	Times:      {symbol: "*", priority: 3, minOperands: 2, maxOperands: Unbounded, assoc: AssocLeft},
	Power:      {symbol: "^", priority: 4, minOperands: 2, maxOperands: 2, assoc: AssocRight},
	UnaryMinus: {symbol: "-", priority: 4, minOperands: 1, maxOperands: 1, assoc: AssocPrefix},
}

// Operators returns the catalog in declaration order.
func Operators() []Operator {
	return []Operator{Plus, Minus, Times, Power, UnaryMinus}
}

// OperatorNames returns the identifiers of all catalog operators.
func OperatorNames() []string {
	ops := Operators()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}

// ParseOperator resolves an operator by its exact, case-sensitive identifier.
func ParseOperator(name string) (Operator, error) {
	op := Operator(name)
	if _, ok := catalog[op]; ok {
		return op, nil
	}
	return OperatorInvalid, &symErrors.Error{
		Type:       symErrors.ErrorTypeUnknownOperator,
		Message:    "unknown operator '" + name + "'",
		Suggestion: symErrors.SuggestName(name, OperatorNames()),
	}
}

// IsValid reports whether op is a catalog member.
func (op Operator) IsValid() bool {
	_, ok := catalog[op]
	return ok
}

// String returns the operator identifier.
func (op Operator) String() string {
	if op == OperatorInvalid {
		return "<invalid>"
	}
	return string(op)
}

// Symbol returns the display text used when rendering.
func (op Operator) Symbol() string {
	return catalog[op].symbol
}

// Priority returns the precedence rank; higher binds tighter.
// Invalid operators have priority 0.
func (op Operator) Priority() int {
	return catalog[op].priority
}

// MinOperands returns the fewest operands the operator accepts.
func (op Operator) MinOperands() int {
	return catalog[op].minOperands
}

// MaxOperands returns the most operands the operator accepts, or Unbounded.
func (op Operator) MaxOperands() int {
	return catalog[op].maxOperands
}

// AcceptsOperands reports whether n operands form a well-shaped application.
func (op Operator) AcceptsOperands(n int) bool {
	info, ok := catalog[op]
	if !ok || n < info.minOperands {
		return false
	}
	return info.maxOperands == Unbounded || n <= info.maxOperands
}

// Associativity returns how the operator groups with itself.
func (op Operator) Associativity() Associativity {
	return catalog[op].assoc
}

// IsUnary reports whether the operator takes exactly one operand.
func (op Operator) IsUnary() bool {
	return op.IsValid() && op.MaxOperands() == 1
}
