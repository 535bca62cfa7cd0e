// Package codegen renders typed expression trees as C-like source text.
//
// Rendering is syntax directed: symbols and integer literals print verbatim,
// operator nodes print their symbol, and operator applications print their
// operands joined by the operator symbol ("a+b+c", "-x"). A Function is
// wrapped in parentheses exactly when its HasParenthesis attribute is true;
// run the transform passes first to drop redundant ones.
//
// Negative integer literals have no such flag. They are parenthesized after
// a minus sign and as the base of a power: "a-(-5)", "(-2)^x".
//
// Functions whose head is a Symbol render as calls: "sin(x)", "pow(a, b)".
//
// Malformed applications, such as Minus with three operands, fail with
// ErrorTypeMalformed instead of producing partial text.
package codegen
