// Package errors provides rich error types for expression parsing, tree
// construction and code generation.
//
// Errors carry the position in the input text, a rendered context line with
// a caret under the offending column, and an optional suggestion.
//
// # Error Types
//
// ErrorTypeSyntax: the input text could not be tokenized or parsed
//
// ErrorTypeUnknownOperator: a call head does not name a catalog operator
//
// ErrorTypeNullArgument: a required argument (tree, node, queue) is absent
//
// ErrorTypeMalformed: a node does not have the shape its kind requires
//
// ErrorTypeIO: file I/O errors from the command line tools
//
// # Basic Usage
//
//	err := &errors.Error{
//	    Type:     errors.ErrorTypeSyntax,
//	    Message:  "Syntax error: expected ']'",
//	    Position: pos,
//	}
//	err = errors.WithInput(err, text)
//
// Callers that only care about the category match the sentinels:
//
//	if stderrors.Is(err, errors.ErrUnknownOperator) {
//	    ...
//	}
//
// Accumulate multiple errors (one per expression in a batch):
//
//	errList := errors.NewErrorList()
//	errList.Add(err)
//	return errList.ToError()
package errors
