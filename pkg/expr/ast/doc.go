// Package ast defines the typed expression tree: the operator catalog, the
// four node kinds (Symbol, Integer, Operator, Function) and the arena that
// owns them.
//
// # Arena Model
//
// Every node lives in a Tree and is addressed by a NodeID. A node's children
// are IDs into the same arena and the parent link is a plain ID, so a tree
// has no ownership cycles. A node has at most one parent; to reuse a subtree
// in a second place, attach a Copy of it.
//
//	t := ast.NewTree()
//	a := t.NewSymbol("a")
//	b := t.NewSymbol("b")
//	sum, err := t.NewApply(ast.Plus, a, b) // Plus[a, b]
//
// # Attributes
//
// Each node carries a fixed attribute block. Reading an attribute that was
// never written returns its declared default (see Attr.Default), and
// HasValue reports whether it was explicitly written. Function nodes render
// with parentheses unless HasParenthesis has been set to false.
package ast
