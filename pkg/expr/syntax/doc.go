// Package syntax parses expression text into a generic tree of integer
// literals, symbols and function applications.
//
// Both FullForm ("Plus[a, Times[2, x]]") and infix ("a + 2 x") notation are
// accepted. Infix input is normalized the way a computer algebra system
// reads it:
//
//	a + b + c   Plus[a, b, c]
//	a - b       Plus[a, Times[-1, b]]
//	-x          Times[-1, x]
//	-5          -5
//	a / b       Times[a, Power[b, -1]]
//	a ^ b ^ c   Power[a, Power[b, c]]
//	2 x         Times[2, x]
//
// The tree carries no operator semantics; resolving heads to operators is the
// job of package parser.
package syntax
