// Package transform rewrites expression trees between building and
// rendering.
//
// Traversal and rewriting are separate pieces. ApplyAll walks a subtree in
// pre-order and hands every node to a Rule; a Rule asks for structural
// changes by submitting (old, new) pairs to a Queue, and the owner of the
// queue decides when to apply them. ReplaceQueue is the standard queue:
//
//	q := transform.NewReplaceQueue()
//	if err := transform.ApplyAll(tree, tree.Root(), q, transform.RemoveMinusMult{}); err != nil {
//	    return err
//	}
//	applied, err := q.Flush(tree)
//
// Pipeline runs a sequence of named passes, each until it stops producing
// replacements. DefaultPipeline turns the computer-algebra normal form
// (Times[-1, x], Plus[a, Times[-1, b]]) into C-friendly shapes and drops
// parentheses that precedence makes redundant.
package transform
