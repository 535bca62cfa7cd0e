package ast

// Attr identifies one typed attribute of a node.
type Attr string

const (
	AttrSymbol         Attr = "symbol"         // Symbol name (string)
	AttrValueString    Attr = "valueString"    // Integer literal text (string)
	AttrOperator       Attr = "operator"       // Operator-node value (Operator)
	AttrHasParenthesis Attr = "hasParenthesis" // Function grouping flag (bool)
)

// Attrs returns every attribute key.
func Attrs() []Attr {
	return []Attr{AttrSymbol, AttrValueString, AttrOperator, AttrHasParenthesis}
}

// Name returns the attribute's key name.
func (a Attr) Name() string {
	return string(a)
}

// Default returns the value read back when the attribute was never written.
func (a Attr) Default() any {
	switch a {
	case AttrSymbol, AttrValueString:
		return ""
	case AttrOperator:
		return OperatorInvalid
	case AttrHasParenthesis:
		return true
	}
	return nil
}

// Kind returns the node kind the attribute belongs to.
func (a Attr) Kind() Kind {
	switch a {
	case AttrSymbol:
		return KindSymbol
	case AttrValueString:
		return KindInteger
	case AttrOperator:
		return KindOperator
	case AttrHasParenthesis:
		return KindFunction
	}
	return KindInvalid
}

func (a Attr) bit() uint8 {
	switch a {
	case AttrSymbol:
		return 1 << 0
	case AttrValueString:
		return 1 << 1
	case AttrOperator:
		return 1 << 2
	case AttrHasParenthesis:
		return 1 << 3
	}
	return 0
}

// attributes is the per-node attribute block. The zero value reads as every
// attribute's default: noParenthesis is stored inverted so that Functions
// default to rendering parentheses.
type attributes struct {
	symbol        string
	valueString   string
	operator      Operator
	noParenthesis bool
	written       uint8
}

// Symbol returns the SYMBOL attribute.
func (t *Tree) Symbol(id NodeID) string {
	return t.nodes[id].attrs.symbol
}

// SetSymbol writes the SYMBOL attribute.
func (t *Tree) SetSymbol(id NodeID, name string) {
	a := &t.nodes[id].attrs
	a.symbol = name
	a.written |= AttrSymbol.bit()
}

// ResetSymbol writes the absent value, which reads back as "".
func (t *Tree) ResetSymbol(id NodeID) {
	t.SetSymbol(id, "")
}

// ValueString returns the VALUE_STRING attribute of an Integer.
func (t *Tree) ValueString(id NodeID) string {
	return t.nodes[id].attrs.valueString
}

// SetValueString writes the literal text verbatim.
func (t *Tree) SetValueString(id NodeID, text string) {
	a := &t.nodes[id].attrs
	a.valueString = text
	a.written |= AttrValueString.bit()
}

// ResetValueString writes the absent value, which reads back as "".
func (t *Tree) ResetValueString(id NodeID) {
	t.SetValueString(id, "")
}

// Operator returns the OPERATOR attribute, or OperatorInvalid.
func (t *Tree) Operator(id NodeID) Operator {
	return t.nodes[id].attrs.operator
}

// SetOperator writes the OPERATOR attribute. Values outside the catalog are
// stored as OperatorInvalid.
func (t *Tree) SetOperator(id NodeID, op Operator) {
	if !op.IsValid() {
		op = OperatorInvalid
	}
	a := &t.nodes[id].attrs
	a.operator = op
	a.written |= AttrOperator.bit()
}

// HasParenthesis returns the HAS_PARENTHESIS attribute (default true).
func (t *Tree) HasParenthesis(id NodeID) bool {
	return !t.nodes[id].attrs.noParenthesis
}

// SetHasParenthesis writes the HAS_PARENTHESIS attribute.
func (t *Tree) SetHasParenthesis(id NodeID, v bool) {
	a := &t.nodes[id].attrs
	a.noParenthesis = !v
	a.written |= AttrHasParenthesis.bit()
}

// ResetHasParenthesis writes the absent value, which reads back as true.
func (t *Tree) ResetHasParenthesis(id NodeID) {
	t.SetHasParenthesis(id, true)
}

// HasValue reports whether attr was explicitly written on the node.
func (t *Tree) HasValue(id NodeID, attr Attr) bool {
	return t.nodes[id].attrs.written&attr.bit() != 0
}

// Get returns the attribute value as an untyped value, for generic dumps.
func (t *Tree) Get(id NodeID, attr Attr) any {
	switch attr {
	case AttrSymbol:
		return t.Symbol(id)
	case AttrValueString:
		return t.ValueString(id)
	case AttrOperator:
		return t.Operator(id)
	case AttrHasParenthesis:
		return t.HasParenthesis(id)
	}
	return nil
}
