package syntax

import (
	"strings"

	symErrors "mercator-hq/symc/pkg/expr/errors"
)

// Position is a location in the input text.
type Position = symErrors.Position

// Node is a generic parse tree node: *Integer, *Symbol or *Function.
type Node interface {
	Pos() Position
	String() string
	node()
}

// Integer is an integer literal. Text is kept verbatim, with a leading '-'
// for negative literals.
type Integer struct {
	Text     string
	Position Position
}

// Symbol is a name.
type Symbol struct {
	Name     string
	Position Position
}

// Function is an application Head[Args...].
type Function struct {
	Head     Node
	Args     []Node
	Position Position
}

func (n *Integer) Pos() Position  { return n.Position }
func (n *Symbol) Pos() Position   { return n.Position }
func (n *Function) Pos() Position { return n.Position }

func (*Integer) node()  {}
func (*Symbol) node()   {}
func (*Function) node() {}

func (n *Integer) String() string { return n.Text }
func (n *Symbol) String() string  { return n.Name }

// String renders the application in FullForm.
func (n *Function) String() string {
	var sb strings.Builder
	if n.Head != nil {
		sb.WriteString(n.Head.String())
	}
	sb.WriteByte('[')
	for i, a := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if a != nil {
			sb.WriteString(a.String())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// HeadName returns the head's name when the head is a Symbol.
func (n *Function) HeadName() (string, bool) {
	s, ok := n.Head.(*Symbol)
	if !ok {
		return "", false
	}
	return s.Name, true
}

// NewCall builds name[args...] at pos.
func NewCall(name string, pos Position, args ...Node) *Function {
	return &Function{
		Head:     &Symbol{Name: name, Position: pos},
		Args:     args,
		Position: pos,
	}
}
