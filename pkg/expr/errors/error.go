package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType categorizes the failure.
type ErrorType string

const (
	ErrorTypeSyntax          ErrorType = "syntax"           // Input text is not a valid expression
	ErrorTypeUnknownOperator ErrorType = "unknown_operator" // Call head is not a catalog operator
	ErrorTypeNullArgument    ErrorType = "null_argument"    // Required argument is absent
	ErrorTypeMalformed       ErrorType = "malformed"        // Node shape violates its kind
	ErrorTypeIO              ErrorType = "io"               // File I/O error
)

// Sentinels for errors.Is. They match any *Error of the same type.
var (
	ErrSyntax          = &Error{Type: ErrorTypeSyntax, Message: "syntax error"}
	ErrUnknownOperator = &Error{Type: ErrorTypeUnknownOperator, Message: "unknown operator"}
	ErrNullArgument    = &Error{Type: ErrorTypeNullArgument, Message: "null argument"}
	ErrMalformed       = &Error{Type: ErrorTypeMalformed, Message: "malformed node"}
)

// Position is a location in the expression text.
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
}

// String returns "line:column".
func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position points into some input.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Error is a categorized error with optional position, context and suggestion.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Error message
	Position   Position  // Input position, if known
	Context    string    // Rendered input line with caret
	Suggestion string    // Suggested fix (optional)
	Err        error     // Underlying cause (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))
	if e.Position.IsValid() {
		sb.WriteString(fmt.Sprintf(" at %s", e.Position))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	if e.Context != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(e.Context, "\n"))
	}
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same type, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Type == e.Type
}

// New creates an error of the given type.
func New(errType ErrorType, format string, args ...any) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// NullArgument reports a missing required argument.
func NullArgument(name string) *Error {
	return &Error{
		Type:    ErrorTypeNullArgument,
		Message: fmt.Sprintf("%s must not be nil", name),
	}
}

// Malformed reports a node whose shape violates its kind.
func Malformed(format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeMalformed,
		Message: "malformed function node: " + fmt.Sprintf(format, args...),
	}
}

// TypeOf returns the ErrorType carried by err, or "" if err is not an *Error.
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// ErrorList collects errors instead of failing on the first one.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list. Non-*Error values are wrapped.
func (el *ErrorList) Add(err error) {
	if err == nil {
		return
	}
	if e, ok := err.(*Error); ok {
		el.Errors = append(el.Errors, e)
		return
	}
	el.Errors = append(el.Errors, &Error{Type: TypeOf(err), Message: err.Error(), Err: err})
}

// AddWithLabel adds err with its message prefixed by label.
func (el *ErrorList) AddWithLabel(label string, err error) {
	if err == nil {
		return
	}
	var base Error
	if e, ok := err.(*Error); ok {
		base = *e
	} else {
		base = Error{Type: TypeOf(err), Message: err.Error()}
	}
	base.Message = fmt.Sprintf("%s: %s", label, base.Message)
	el.Errors = append(el.Errors, &base)
}

// HasErrors returns true if the list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (el *ErrorList) Unwrap() []error {
	errs := make([]error, len(el.Errors))
	for i, err := range el.Errors {
		errs[i] = err
	}
	return errs
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}
