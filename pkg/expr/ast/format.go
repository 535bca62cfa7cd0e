package ast

import "strings"

// FullForm renders the subtree in head[args] notation, e.g. "Plus[a, Times[2, x]]".
// It never fails and is meant for debugging and dumps.
func (t *Tree) FullForm(id NodeID) string {
	var sb strings.Builder
	t.fullForm(&sb, id)
	return sb.String()
}

func (t *Tree) fullForm(sb *strings.Builder, id NodeID) {
	n := &t.nodes[id]
	switch n.kind {
	case KindSymbol:
		sb.WriteString(n.attrs.symbol)
	case KindInteger:
		sb.WriteString(n.attrs.valueString)
	case KindOperator:
		sb.WriteString(n.attrs.operator.String())
	case KindFunction:
		if len(n.children) == 0 {
			sb.WriteString("Function[]")
			return
		}
		t.fullForm(sb, n.children[0])
		sb.WriteByte('[')
		for i, c := range n.children[1:] {
			if i > 0 {
				sb.WriteString(", ")
			}
			t.fullForm(sb, c)
		}
		sb.WriteByte(']')
	}
}

// ExportNode is a serializable view of a subtree.
type ExportNode struct {
	Kind        Kind          `json:"kind" yaml:"kind"`
	Symbol      string        `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Value       string        `json:"value,omitempty" yaml:"value,omitempty"`
	Operator    Operator      `json:"operator,omitempty" yaml:"operator,omitempty"`
	Parenthesis *bool         `json:"parenthesis,omitempty" yaml:"parenthesis,omitempty"`
	Children    []*ExportNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Export builds the serializable view of the subtree at id.
func (t *Tree) Export(id NodeID) *ExportNode {
	n := &t.nodes[id]
	out := &ExportNode{Kind: n.kind}
	switch n.kind {
	case KindSymbol:
		out.Symbol = n.attrs.symbol
	case KindInteger:
		out.Value = n.attrs.valueString
	case KindOperator:
		out.Operator = n.attrs.operator
	case KindFunction:
		paren := !n.attrs.noParenthesis
		out.Parenthesis = &paren
	}
	for _, c := range n.children {
		out.Children = append(out.Children, t.Export(c))
	}
	return out
}
