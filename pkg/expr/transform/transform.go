package transform

import (
	"slices"

	"mercator-hq/symc/pkg/expr/ast"
	symErrors "mercator-hq/symc/pkg/expr/errors"
)

// Queue collects replacement requests.
type Queue interface {
	Replace(oldID, newID ast.NodeID)
}

// Rule inspects one node and may submit replacements to the queue.
type Rule interface {
	Visit(t *ast.Tree, id ast.NodeID, q Queue)
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(t *ast.Tree, id ast.NodeID, q Queue)

// Visit calls f.
func (f RuleFunc) Visit(t *ast.Tree, id ast.NodeID, q Queue) {
	f(t, id, q)
}

// Result is what Apply reports to a rule-based rewriting engine.
type Result struct {
	Replaced  bool // The node itself was replaced directly
	Traversed bool // Descendants were already visited
}

// ApplyAll visits root and all of its descendants in pre-order. The node
// list is fixed before the first visit, so nodes a rule allocates are not
// visited.
func ApplyAll(t *ast.Tree, root ast.NodeID, q Queue, rule Rule) error {
	if t == nil {
		return symErrors.NullArgument("tree")
	}
	if !t.Contains(root) {
		return symErrors.NullArgument("node")
	}
	if q == nil {
		return symErrors.NullArgument("queue")
	}
	if rule == nil {
		return symErrors.NullArgument("rule")
	}

	for _, id := range slices.Collect(t.All(root)) {
		rule.Visit(t, id, q)
	}
	return nil
}

// Apply is the single-node entry point. It handles the whole subtree through
// ApplyAll and reports that no direct replacement was made.
func Apply(t *ast.Tree, id ast.NodeID, q Queue, rule Rule) (Result, error) {
	if err := ApplyAll(t, id, q, rule); err != nil {
		return Result{}, err
	}
	return Result{Replaced: false, Traversed: true}, nil
}

// Replacement is one queued request.
type Replacement struct {
	Old ast.NodeID
	New ast.NodeID
}

// ReplaceQueue is a FIFO Queue applied with Flush.
type ReplaceQueue struct {
	pending []Replacement
}

// NewReplaceQueue creates an empty queue.
func NewReplaceQueue() *ReplaceQueue {
	return &ReplaceQueue{}
}

// Replace queues a request.
func (q *ReplaceQueue) Replace(oldID, newID ast.NodeID) {
	q.pending = append(q.pending, Replacement{Old: oldID, New: newID})
}

// Len returns the number of pending requests.
func (q *ReplaceQueue) Len() int {
	return len(q.pending)
}

// Pending returns a copy of the pending requests.
func (q *ReplaceQueue) Pending() []Replacement {
	return slices.Clone(q.pending)
}

// Flush applies pending requests in order and empties the queue. Requests
// whose old node lies in a subtree an earlier request already replaced are
// skipped. It returns the number applied.
func (q *ReplaceQueue) Flush(t *ast.Tree) (int, error) {
	if t == nil {
		return 0, symErrors.NullArgument("tree")
	}
	pending := q.pending
	q.pending = nil

	applied := 0
	replaced := make(map[ast.NodeID]bool)
	for _, r := range pending {
		if !t.Contains(r.Old) || insideReplaced(t, r.Old, replaced) {
			continue
		}
		if err := t.Replace(r.Old, r.New); err != nil {
			return applied, err
		}
		replaced[r.Old] = true
		applied++
	}
	return applied, nil
}

func insideReplaced(t *ast.Tree, id ast.NodeID, replaced map[ast.NodeID]bool) bool {
	for n := id; n != ast.NoNode; n = t.Parent(n) {
		if replaced[n] {
			return true
		}
	}
	return false
}
