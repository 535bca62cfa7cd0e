package ast

import "iter"

// Descendants returns every node strictly below id, in pre-order.
func (t *Tree) Descendants(id NodeID) []NodeID {
	var out []NodeID
	for d := range t.DescendantsSeq(id) {
		out = append(out, d)
	}
	return out
}

// DescendantsSeq lazily yields every node strictly below id, in pre-order.
func (t *Tree) DescendantsSeq(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for _, c := range t.nodes[id].children {
			if !t.preorder(c, yield) {
				return
			}
		}
	}
}

// All lazily yields id and then its descendants, in pre-order.
func (t *Tree) All(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		t.preorder(id, yield)
	}
}

func (t *Tree) preorder(id NodeID, yield func(NodeID) bool) bool {
	if !yield(id) {
		return false
	}
	for _, c := range t.nodes[id].children {
		if !t.preorder(c, yield) {
			return false
		}
	}
	return true
}

// Visitor is called for each node by Walk. Returning false skips the
// node's children.
type Visitor func(t *Tree, id NodeID, depth int) bool

// Walk traverses the subtree at id in pre-order.
func Walk(t *Tree, id NodeID, visit Visitor) {
	walk(t, id, 0, visit)
}

func walk(t *Tree, id NodeID, depth int, visit Visitor) {
	if !visit(t, id, depth) {
		return
	}
	for _, c := range t.nodes[id].children {
		walk(t, c, depth+1, visit)
	}
}

// Stats summarizes the shape of a subtree.
type Stats struct {
	Nodes     int          `json:"nodes" yaml:"nodes"`
	Depth     int          `json:"depth" yaml:"depth"`
	ByKind    map[Kind]int `json:"by_kind" yaml:"by_kind"`
	Operators int          `json:"operators" yaml:"operators"`
}

// Measure counts nodes by kind and the maximum depth below id.
func (t *Tree) Measure(id NodeID) Stats {
	s := Stats{ByKind: make(map[Kind]int)}
	Walk(t, id, func(t *Tree, n NodeID, depth int) bool {
		s.Nodes++
		s.ByKind[t.Kind(n)]++
		if t.Kind(n) == KindOperator {
			s.Operators++
		}
		if depth+1 > s.Depth {
			s.Depth = depth + 1
		}
		return true
	})
	return s
}
