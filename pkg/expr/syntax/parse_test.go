package syntax

import (
	"errors"
	"strings"
	"testing"

	symErrors "mercator-hq/symc/pkg/expr/errors"
)

func TestParse_FullForm(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"x", "x"},
		{"Plus[a, b]", "Plus[a, b]"},
		{"Times[Plus[a, b], c]", "Times[Plus[a, b], c]"},
		{"Times[-1, x]", "Times[-1, x]"},
		{"f[]", "f[]"},
		{"f[x][y]", "f[x][y]"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got := n.String(); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Infix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b", "Plus[a, b]"},
		{"a + b + c", "Plus[a, b, c]"},
		{"a - b", "Plus[a, Times[-1, b]]"},
		{"a + b - c", "Plus[a, b, Times[-1, c]]"},
		{"a - 5", "Plus[a, -5]"},
		{"-x", "Times[-1, x]"},
		{"-5", "-5"},
		{"+x", "x"},
		{"a * b * c", "Times[a, b, c]"},
		{"x / y", "Times[x, Power[y, -1]]"},
		{"x^2", "Power[x, 2]"},
		{"a^b^c", "Power[a, Power[b, c]]"},
		{"x^-1", "Power[x, -1]"},
		{"-x^2", "Times[-1, Power[x, 2]]"},
		{"2 x", "Times[2, x]"},
		{"2x", "Times[2, x]"},
		{"(a + b) * c", "Times[Plus[a, b], c]"},
		{"a + (b + c)", "Plus[a, Plus[b, c]]"},
		{"(N*M*(i-N))", "Times[N, M, Plus[i, Times[-1, N]]]"},
		{"-(x * (-1))", "Times[-1, Times[x, -1]]"},
		{"1 + 2*x + x^2", "Plus[1, Times[2, x], Power[x, 2]]"},
		{"Sin[x] + 1", "Plus[Sin[x], 1]"},
		{"a\n+ b", "Plus[a, b]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got := n.String(); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_NodeShapes(t *testing.T) {
	n, err := Parse("Plus[a, 7]")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	fn, ok := n.(*Function)
	if !ok {
		t.Fatalf("Parse() = %T, want *Function", n)
	}
	if name, ok := fn.HeadName(); !ok || name != "Plus" {
		t.Errorf("HeadName() = %q, %v; want Plus, true", name, ok)
	}
	if _, ok := fn.Args[0].(*Symbol); !ok {
		t.Errorf("Args[0] = %T, want *Symbol", fn.Args[0])
	}
	if lit, ok := fn.Args[1].(*Integer); !ok || lit.Text != "7" {
		t.Errorf("Args[1] = %#v, want Integer 7", fn.Args[1])
	}
}

func TestParse_Blank(t *testing.T) {
	for _, input := range []string{"", " ", "   ", "\n\t"} {
		n, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", input, err)
			continue
		}
		sym, ok := n.(*Symbol)
		if !ok || sym.Name != "" {
			t.Errorf("Parse(%q) = %#v, want empty Symbol", input, n)
		}
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		input  string
		column int
	}{
		{"invalid[syntax", 15},
		{"a +", 4},
		{"(a + b", 7},
		{"a + )", 5},
		{"f[a,, b]", 5},
		{"1.5 + x", 1},
		{"a # b", 3},
		{"a b ]", 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) error = nil, want syntax error", tt.input)
			}
			if !errors.Is(err, symErrors.ErrSyntax) {
				t.Errorf("error = %v, want syntax error", err)
			}
			if !strings.Contains(err.Error(), "Syntax error") {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), "Syntax error")
			}
			var e *symErrors.Error
			if errors.As(err, &e) {
				if e.Position.Column != tt.column {
					t.Errorf("Column = %d, want %d", e.Position.Column, tt.column)
				}
				if e.Context == "" {
					t.Error("Context is empty")
				}
			}
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	input := strings.Repeat("(", 10) + "x" + strings.Repeat(")", 10)

	if _, err := Parse(input, WithMaxDepth(20)); err != nil {
		t.Errorf("Parse(depth 10, max 20) error = %v", err)
	}
	_, err := Parse(input, WithMaxDepth(5))
	if !errors.Is(err, symErrors.ErrSyntax) {
		t.Errorf("Parse(depth 10, max 5) error = %v, want syntax error", err)
	}
}

func TestParse_Positions(t *testing.T) {
	n, err := Parse("a +\n  bb")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	fn := n.(*Function)
	pos := fn.Args[1].Pos()
	if pos.Line != 2 || pos.Column != 3 {
		t.Errorf("Pos() = %s, want 2:3", pos)
	}
}
