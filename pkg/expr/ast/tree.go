package ast

import (
	"fmt"

	symErrors "mercator-hq/symc/pkg/expr/errors"
)

// Kind is the node variant.
type Kind string

const (
	KindInvalid  Kind = ""
	KindSymbol   Kind = "Symbol"
	KindInteger  Kind = "Integer"
	KindOperator Kind = "Operator"
	KindFunction Kind = "Function"
)

// IsValid reports whether k is one of the four node kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindSymbol, KindInteger, KindOperator, KindFunction:
		return true
	}
	return false
}

// NodeID addresses a node inside its Tree.
type NodeID int32

// NoNode is the absent node: the parent of a root, or a missing result.
const NoNode NodeID = -1

type node struct {
	kind     Kind
	parent   NodeID
	children []NodeID
	attrs    attributes
}

// Tree is an arena owning expression nodes. It may hold several detached
// subtrees; Root names the one that is the current expression.
//
// A Tree is not safe for concurrent mutation.
type Tree struct {
	nodes []node
	root  NodeID
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{root: NoNode}
}

// Len returns the number of nodes ever allocated in the arena, including
// detached ones.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Truncate drops every node allocated at or after n, undoing a failed build.
// It fails if a node below n is attached to one of the dropped nodes. A
// dropped root resets Root to NoNode.
func (t *Tree) Truncate(n int) error {
	if n < 0 || n > len(t.nodes) {
		return symErrors.New(symErrors.ErrorTypeMalformed, "truncate to %d outside arena of %d nodes", n, len(t.nodes))
	}
	for i := range n {
		if p := t.nodes[i].parent; p != NoNode && int(p) >= n {
			return symErrors.New(symErrors.ErrorTypeMalformed, "node %d is attached to node %d above %d", i, p, n)
		}
	}
	clear(t.nodes[n:])
	t.nodes = t.nodes[:n]
	if int(t.root) >= n {
		t.root = NoNode
	}
	return nil
}

// Contains reports whether id addresses a node of t.
func (t *Tree) Contains(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.nodes)
}

// Root returns the current root, or NoNode.
func (t *Tree) Root() NodeID {
	return t.root
}

// SetRoot makes id the root. The node must not have a parent.
func (t *Tree) SetRoot(id NodeID) error {
	if !t.Contains(id) {
		return symErrors.NullArgument("root")
	}
	if p := t.nodes[id].parent; p != NoNode {
		return symErrors.New(symErrors.ErrorTypeMalformed, "node %d already has parent %d", id, p)
	}
	t.root = id
	return nil
}

// NewNode creates a node of the given kind and attaches children in order.
// Operator nodes must be created with NewOperator.
func (t *Tree) NewNode(kind Kind, children ...NodeID) (NodeID, error) {
	if t == nil {
		return NoNode, symErrors.NullArgument("tree")
	}
	switch kind {
	case KindSymbol, KindInteger, KindFunction:
	case KindOperator:
		return NoNode, symErrors.New(symErrors.ErrorTypeMalformed, "operator nodes must be created with an operator value")
	default:
		return NoNode, symErrors.New(symErrors.ErrorTypeMalformed, "cannot instantiate node kind %q", string(kind))
	}
	if err := t.checkAttachable(children); err != nil {
		return NoNode, err
	}
	return t.alloc(kind, children), nil
}

func (t *Tree) checkAttachable(children []NodeID) error {
	seen := make(map[NodeID]struct{}, len(children))
	for _, c := range children {
		if !t.Contains(c) {
			return symErrors.New(symErrors.ErrorTypeNullArgument, "child %d is not a node of this tree", c)
		}
		if p := t.nodes[c].parent; p != NoNode {
			return symErrors.New(symErrors.ErrorTypeMalformed, "node %d already has parent %d; attach a copy", c, p)
		}
		if _, dup := seen[c]; dup {
			return symErrors.New(symErrors.ErrorTypeMalformed, "node %d attached twice; attach a copy", c)
		}
		if c == t.root {
			return symErrors.New(symErrors.ErrorTypeMalformed, "node %d is the root and cannot become a child", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func (t *Tree) alloc(kind Kind, children []NodeID) NodeID {
	id := NodeID(len(t.nodes))
	var kids []NodeID
	if len(children) > 0 {
		kids = make([]NodeID, len(children))
		copy(kids, children)
	}
	t.nodes = append(t.nodes, node{kind: kind, parent: NoNode, children: kids})
	for _, c := range kids {
		t.nodes[c].parent = id
	}
	return id
}

// NewSymbol creates a Symbol with the given name.
func (t *Tree) NewSymbol(name string) NodeID {
	id := t.alloc(KindSymbol, nil)
	t.SetSymbol(id, name)
	return id
}

// NewInteger creates an Integer holding text verbatim.
func (t *Tree) NewInteger(text string) NodeID {
	id := t.alloc(KindInteger, nil)
	t.SetValueString(id, text)
	return id
}

// NewOperator creates an Operator-node for op.
func (t *Tree) NewOperator(op Operator) (NodeID, error) {
	if t == nil {
		return NoNode, symErrors.NullArgument("tree")
	}
	if !op.IsValid() {
		_, err := ParseOperator(string(op))
		return NoNode, err
	}
	id := t.alloc(KindOperator, nil)
	t.SetOperator(id, op)
	return id, nil
}

// NewFunction creates a Function from a head and its operands.
func (t *Tree) NewFunction(children ...NodeID) (NodeID, error) {
	return t.NewNode(KindFunction, children...)
}

// NewApply creates Function[Operator(op), operands...].
func (t *Tree) NewApply(op Operator, operands ...NodeID) (NodeID, error) {
	if err := t.checkAttachable(operands); err != nil {
		return NoNode, err
	}
	head, err := t.NewOperator(op)
	if err != nil {
		return NoNode, err
	}
	return t.NewFunction(append([]NodeID{head}, operands...)...)
}

// Kind returns the node's variant.
func (t *Tree) Kind(id NodeID) Kind {
	return t.nodes[id].kind
}

// Parent returns the node's parent, or NoNode.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns a copy of the node's child list.
func (t *Tree) Children(id NodeID) []NodeID {
	kids := t.nodes[id].children
	out := make([]NodeID, len(kids))
	copy(out, kids)
	return out
}

// Child returns the i-th child. It panics if i is out of range.
func (t *Tree) Child(id NodeID, i int) NodeID {
	return t.nodes[id].children[i]
}

// NumChildren returns the number of children.
func (t *Tree) NumChildren(id NodeID) int {
	return len(t.nodes[id].children)
}

// IndexInParent returns the node's position in its parent's child list,
// or -1 for a detached node.
func (t *Tree) IndexInParent(id NodeID) int {
	p := t.nodes[id].parent
	if p == NoNode {
		return -1
	}
	for i, c := range t.nodes[p].children {
		if c == id {
			return i
		}
	}
	return -1
}

// HeadOperator returns the operator of a Function whose head is an
// Operator-node.
func (t *Tree) HeadOperator(id NodeID) (Operator, bool) {
	n := &t.nodes[id]
	if n.kind != KindFunction || len(n.children) == 0 {
		return OperatorInvalid, false
	}
	head := n.children[0]
	if t.nodes[head].kind != KindOperator {
		return OperatorInvalid, false
	}
	op := t.nodes[head].attrs.operator
	return op, op.IsValid()
}

// Priority returns the precedence of an operator application. Atoms and
// calls report ok=false.
func (t *Tree) Priority(id NodeID) (int, bool) {
	op, ok := t.HeadOperator(id)
	if !ok {
		return 0, false
	}
	return op.Priority(), true
}

// Replace puts newID in oldID's place. oldID ends up detached; newID must be
// detached beforehand. Replacing the root moves the root.
func (t *Tree) Replace(oldID, newID NodeID) error {
	if !t.Contains(oldID) || !t.Contains(newID) {
		return symErrors.NullArgument("node")
	}
	if oldID == newID {
		return nil
	}
	if p := t.nodes[newID].parent; p != NoNode {
		return symErrors.New(symErrors.ErrorTypeMalformed, "replacement node %d already has parent %d", newID, p)
	}
	if t.isAncestor(oldID, newID) {
		return symErrors.New(symErrors.ErrorTypeMalformed, "replacement node %d is inside node %d", newID, oldID)
	}
	if t.isAncestor(newID, oldID) {
		return symErrors.New(symErrors.ErrorTypeMalformed, "replacement node %d contains node %d", newID, oldID)
	}
	if newID == t.root && t.nodes[oldID].parent != NoNode {
		return symErrors.New(symErrors.ErrorTypeMalformed, "node %d is the root and cannot become a child", newID)
	}

	parent := t.nodes[oldID].parent
	if parent == NoNode {
		if t.root == oldID {
			t.root = newID
		}
		return nil
	}

	idx := t.IndexInParent(oldID)
	t.nodes[parent].children[idx] = newID
	t.nodes[newID].parent = parent
	t.nodes[oldID].parent = NoNode
	return nil
}

func (t *Tree) isAncestor(anc, id NodeID) bool {
	for p := t.nodes[id].parent; p != NoNode; p = t.nodes[p].parent {
		if p == anc {
			return true
		}
	}
	return false
}

// IsAttached reports whether id is the root or reachable from it.
func (t *Tree) IsAttached(id NodeID) bool {
	if t.root == NoNode {
		return false
	}
	n := id
	for t.nodes[n].parent != NoNode {
		n = t.nodes[n].parent
	}
	return n == t.root
}

// Copy deep-copies the subtree at id inside the same arena. The copy is
// detached and shares no nodes with the original.
func (t *Tree) Copy(id NodeID) NodeID {
	return t.CopyFrom(t, id)
}

// CopyFrom deep-copies the subtree at id of src into t.
func (t *Tree) CopyFrom(src *Tree, id NodeID) NodeID {
	n := src.nodes[id]
	var kids []NodeID
	if len(n.children) > 0 {
		kids = make([]NodeID, len(n.children))
		for i, c := range n.children {
			kids[i] = t.CopyFrom(src, c)
		}
	}
	cp := t.alloc(n.kind, kids)
	t.nodes[cp].attrs = n.attrs
	return cp
}

// Clone returns an independent copy of the whole arena. Node IDs are
// preserved.
func (t *Tree) Clone() *Tree {
	out := &Tree{nodes: make([]node, len(t.nodes)), root: t.root}
	for i, n := range t.nodes {
		n.children = append([]NodeID(nil), n.children...)
		out.nodes[i] = n
	}
	return out
}

// Equal reports whether two subtrees have the same shape and attribute
// values. Written-ness is not compared.
func Equal(a *Tree, ai NodeID, b *Tree, bi NodeID) bool {
	na, nb := &a.nodes[ai], &b.nodes[bi]
	if na.kind != nb.kind || len(na.children) != len(nb.children) {
		return false
	}
	aa, ab := na.attrs, nb.attrs
	if aa.symbol != ab.symbol || aa.valueString != ab.valueString ||
		aa.operator != ab.operator || aa.noParenthesis != ab.noParenthesis {
		return false
	}
	for i := range na.children {
		if !Equal(a, na.children[i], b, nb.children[i]) {
			return false
		}
	}
	return true
}

// Describe renders a node for log and error messages.
func (t *Tree) Describe(id NodeID) string {
	if !t.Contains(id) {
		return fmt.Sprintf("node(%d)", id)
	}
	return fmt.Sprintf("%s#%d %s", t.Kind(id), id, t.FullForm(id))
}
