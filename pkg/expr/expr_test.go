package expr

import (
	"errors"
	"strings"
	"testing"

	"mercator-hq/symc/pkg/expr/ast"
	"mercator-hq/symc/pkg/expr/codegen"
	symErrors "mercator-hq/symc/pkg/expr/errors"
)

func TestParse_Scenarios(t *testing.T) {
	t.Run("integer", func(t *testing.T) {
		tree, err := Parse("42")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		root := tree.Root()
		if tree.Kind(root) != ast.KindInteger || tree.ValueString(root) != "42" {
			t.Errorf("root = %s, want Integer 42", tree.Describe(root))
		}
		if got, _ := codegen.NewGenerator().ConvertRoot(tree); got != "42" {
			t.Errorf("Convert() = %q, want %q", got, "42")
		}
	})

	t.Run("symbol", func(t *testing.T) {
		tree, err := Parse("x")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		root := tree.Root()
		if tree.Kind(root) != ast.KindSymbol || tree.Symbol(root) != "x" {
			t.Errorf("root = %s, want Symbol x", tree.Describe(root))
		}
		if got, _ := codegen.NewGenerator().ConvertRoot(tree); got != "x" {
			t.Errorf("Convert() = %q, want %q", got, "x")
		}
	})

	t.Run("plus", func(t *testing.T) {
		tree, err := Parse("Plus[a, b]")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		root := tree.Root()
		children := tree.Children(root)
		if tree.Kind(root) != ast.KindFunction || len(children) != 3 {
			t.Fatalf("root = %s, want Function with 3 children", tree.Describe(root))
		}
		if tree.Kind(children[0]) != ast.KindOperator || tree.Operator(children[0]) != ast.Plus {
			t.Errorf("children[0] = %s, want Operator Plus", tree.Describe(children[0]))
		}
		if tree.Symbol(children[1]) != "a" || tree.Symbol(children[2]) != "b" {
			t.Errorf("operands = %s, %s, want a, b", tree.Describe(children[1]), tree.Describe(children[2]))
		}

		got, err := codegen.NewGenerator().ConvertRoot(tree)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		ia, iplus, ib := strings.Index(got, "a"), strings.Index(got, "+"), strings.Index(got, "b")
		if !(ia >= 0 && ia < iplus && iplus < ib) {
			t.Errorf("Convert() = %q, want a, +, b in order", got)
		}
	})

	t.Run("nested", func(t *testing.T) {
		tree, err := Parse("Times[Plus[a, b], c]")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		root := tree.Root()
		inner := tree.Children(root)[1]
		if tree.Kind(inner) != ast.KindFunction || tree.Operator(tree.Children(inner)[0]) != ast.Plus {
			t.Errorf("children[1] = %s, want Function Plus[a,b]", tree.Describe(inner))
		}

		symbols := map[string]int{}
		for _, id := range tree.Descendants(root) {
			if tree.Kind(id) == ast.KindSymbol {
				symbols[tree.Symbol(id)]++
			}
		}
		if len(symbols) != 3 || symbols["a"] != 1 || symbols["b"] != 1 || symbols["c"] != 1 {
			t.Errorf("symbols = %v, want exactly a, b, c", symbols)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := Parse("invalid[syntax")
		if !errors.Is(err, symErrors.ErrSyntax) {
			t.Errorf("Parse() error = %v, want syntax error", err)
		}
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := Parse("UnknownFunction[x]")
		if !errors.Is(err, symErrors.ErrUnknownOperator) {
			t.Errorf("Parse() error = %v, want unknown operator error", err)
		}
	})
}

func TestConvertToC(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "42", want: "42"},
		{input: "Plus[a, b]", want: "a+b"},
		{input: "(a + b) * c", want: "(a+b)*c"},
		{input: "a - (b + c)", want: "a-(b+c)"},
		{input: "1 + 2*x + x^2", want: "1+2*x+x^2"},
		{input: "-(a + b)", want: "-(a+b)"},
		{input: "a - -5", want: "a+-(-5)"},
		{input: "-(-5)", want: "-(-5)"},
		{input: "(-2)^x", want: "(-2)^x"},
		{input: "-1*-1", want: "-(-1)"},
		{input: "a - 5", want: "a-5"},
		{input: "invalid[syntax", wantErr: symErrors.ErrSyntax},
		{input: "Sin[x]", wantErr: symErrors.ErrUnknownOperator},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ConvertToC(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ConvertToC(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConvertToC(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ConvertToC(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
