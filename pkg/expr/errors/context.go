package errors

import (
	"fmt"
	"strings"
)

// ExtractContext renders the input line containing pos, with a caret under
// the column. Multi-line input shows contextLines lines on either side.
func ExtractContext(input string, pos Position, contextLines int) string {
	if !pos.IsValid() {
		return ""
	}

	lines := strings.Split(input, "\n")
	errorLine := pos.Line - 1
	if errorLine >= len(lines) {
		return ""
	}

	startLine := errorLine - contextLines
	endLine := errorLine + contextLines
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, lines[i]))

		if i == errorLine && pos.Column > 0 {
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", pos.Column-1)))
		}
	}

	return sb.String()
}

// WithInput attaches the rendered context for err's position in input.
func WithInput(err *Error, input string) *Error {
	if err != nil && err.Position.IsValid() {
		err.Context = ExtractContext(input, err.Position, 1)
	}
	return err
}
