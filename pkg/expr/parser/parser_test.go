package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/symc/pkg/expr/ast"
	symErrors "mercator-hq/symc/pkg/expr/errors"
	"mercator-hq/symc/pkg/expr/syntax"
)

func TestParser_Parse_Integer(t *testing.T) {
	tree, root, err := NewParser().Parse("42")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if tree.Kind(root) != ast.KindInteger {
		t.Fatalf("Kind = %q, want %q", tree.Kind(root), ast.KindInteger)
	}
	if got := tree.ValueString(root); got != "42" {
		t.Errorf("ValueString = %q, want %q", got, "42")
	}
	if tree.Root() != root {
		t.Errorf("Root() = %d, want %d", tree.Root(), root)
	}
}

func TestParser_Parse_Symbol(t *testing.T) {
	tree, root, err := NewParser().Parse("x")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if tree.Kind(root) != ast.KindSymbol {
		t.Fatalf("Kind = %q, want %q", tree.Kind(root), ast.KindSymbol)
	}
	if got := tree.Symbol(root); got != "x" {
		t.Errorf("Symbol = %q, want %q", got, "x")
	}
}

func TestParser_Parse_Function(t *testing.T) {
	tree, root, err := NewParser().Parse("Plus[a, b]")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if tree.Kind(root) != ast.KindFunction {
		t.Fatalf("Kind = %q, want %q", tree.Kind(root), ast.KindFunction)
	}
	if tree.NumChildren(root) != 3 {
		t.Fatalf("NumChildren = %d, want 3", tree.NumChildren(root))
	}

	head := tree.Child(root, 0)
	if tree.Kind(head) != ast.KindOperator || tree.Operator(head) != ast.Plus {
		t.Errorf("children[0] = %s, want Operator Plus", tree.Describe(head))
	}
	for i, want := range []string{"a", "b"} {
		c := tree.Child(root, i+1)
		if tree.Kind(c) != ast.KindSymbol || tree.Symbol(c) != want {
			t.Errorf("children[%d] = %s, want Symbol %q", i+1, tree.Describe(c), want)
		}
	}
	if !tree.HasParenthesis(root) {
		t.Error("HasParenthesis = false, want default true")
	}
	if tree.HasValue(root, ast.AttrHasParenthesis) {
		t.Error("HasValue(hasParenthesis) = true, want false for built functions")
	}
}

func TestParser_Parse_Nested(t *testing.T) {
	tree, root, err := NewParser().Parse("Times[Plus[a, b], c]")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	inner := tree.Child(root, 1)
	if op, ok := tree.HeadOperator(inner); !ok || op != ast.Plus {
		t.Errorf("children[1] head = %q, %v; want Plus", op, ok)
	}

	var symbols []string
	for _, id := range tree.Descendants(root) {
		if tree.Kind(id) == ast.KindSymbol {
			symbols = append(symbols, tree.Symbol(id))
		}
	}
	if got := strings.Join(symbols, ","); got != "a,b,c" {
		t.Errorf("symbol descendants = %q, want %q", got, "a,b,c")
	}
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	_, _, err := NewParser().Parse("invalid[syntax")
	if !errors.Is(err, symErrors.ErrSyntax) {
		t.Fatalf("Parse() error = %v, want syntax error", err)
	}
	if !strings.Contains(err.Error(), "Syntax error") {
		t.Errorf("Error() = %q, want it to contain %q", err.Error(), "Syntax error")
	}
}

func TestParser_Parse_UnknownOperator(t *testing.T) {
	_, _, err := NewParser().Parse("UnknownFunction[x]")
	if !errors.Is(err, symErrors.ErrUnknownOperator) {
		t.Fatalf("Parse() error = %v, want unknown operator", err)
	}
	var e *symErrors.Error
	if errors.As(err, &e) && e.Context == "" {
		t.Error("Context is empty, want caret context")
	}
}

func TestParser_Parse_Blank(t *testing.T) {
	for _, input := range []string{"", "   "} {
		tree, root, err := NewParser().Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", input, err)
			continue
		}
		if tree.Kind(root) != ast.KindSymbol || tree.Symbol(root) != "" {
			t.Errorf("Parse(%q) = %s, want empty Symbol", input, tree.Describe(root))
		}
	}
}

func TestParser_Limits(t *testing.T) {
	p := NewParser().WithMaxLength(5)
	if _, _, err := p.Parse("a + b + c"); !errors.Is(err, symErrors.ErrSyntax) {
		t.Errorf("Parse(too long) error = %v, want syntax error", err)
	}

	p = NewParser().WithMaxDepth(2)
	if _, _, err := p.Parse("(((x)))"); !errors.Is(err, symErrors.ErrSyntax) {
		t.Errorf("Parse(too deep) error = %v, want syntax error", err)
	}
}

func TestParser_WithFunction(t *testing.T) {
	p := NewParser().WithFunction("Sin", "sin").WithFunctions(map[string]string{"Sqrt": ""})

	tree, root, err := p.Parse("Sin[x] + Sqrt[y]")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	sin := tree.Child(root, 1)
	head := tree.Child(sin, 0)
	if tree.Kind(head) != ast.KindSymbol || tree.Symbol(head) != "sin" {
		t.Errorf("Sin head = %s, want Symbol sin", tree.Describe(head))
	}
	sqrt := tree.Child(tree.Child(root, 2), 0)
	if tree.Symbol(sqrt) != "Sqrt" {
		t.Errorf("Sqrt head = %q, want %q", tree.Symbol(sqrt), "Sqrt")
	}
}

func TestParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expr.txt")
	if err := os.WriteFile(path, []byte("x^2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tree, root, err := NewParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}
	if got := tree.FullForm(root); got != "Power[x, 2]" {
		t.Errorf("FullForm = %q, want %q", got, "Power[x, 2]")
	}

	_, _, err = NewParser().ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	if symErrors.TypeOf(err) != symErrors.ErrorTypeIO {
		t.Errorf("ParseFile(missing) error type = %q, want io", symErrors.TypeOf(err))
	}
}

func TestToNode(t *testing.T) {
	pos := syntax.Position{Line: 1, Column: 1}
	p := NewParser()

	tests := []struct {
		name string
		node syntax.Node
		want string
		err  error
	}{
		{"integer", &syntax.Integer{Text: "123"}, "123", nil},
		{"symbol", &syntax.Symbol{Name: "x"}, "x", nil},
		{"call", syntax.NewCall("Times", pos, &syntax.Integer{Text: "-1"}, &syntax.Symbol{Name: "x"}), "Times[-1, x]", nil},
		{"nil node", nil, "", symErrors.ErrNullArgument},
		{"unknown call", syntax.NewCall("UnknownFunction", pos, &syntax.Symbol{Name: "x"}), "", symErrors.ErrUnknownOperator},
		{"empty head name", syntax.NewCall("", pos), "", symErrors.ErrUnknownOperator},
		{"non-symbol head", &syntax.Function{Head: &syntax.Integer{Text: "2"}}, "", symErrors.ErrMalformed},
		{"nil argument", syntax.NewCall("Plus", pos, nil, &syntax.Symbol{Name: "x"}), "", symErrors.ErrNullArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := ast.NewTree()
			id, err := p.ToNode(tree, tt.node)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("ToNode() error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToNode() error = %v", err)
			}
			if got := tree.FullForm(id); got != tt.want {
				t.Errorf("ToNode() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := p.ToNode(nil, &syntax.Symbol{Name: "x"}); !errors.Is(err, symErrors.ErrNullArgument) {
		t.Errorf("ToNode(nil tree) error = %v, want null argument", err)
	}
}

func TestToNode_FailureLeavesTreeUnchanged(t *testing.T) {
	pos := syntax.Position{Line: 1, Column: 1}
	tree := ast.NewTree()
	keep := tree.NewSymbol("keep")

	bad := syntax.NewCall("Plus", pos,
		&syntax.Symbol{Name: "a"},
		syntax.NewCall("Times", pos, &syntax.Integer{Text: "2"}, &syntax.Symbol{Name: "b"}),
		syntax.NewCall("UnknownFunction", pos, &syntax.Symbol{Name: "x"}),
	)
	if _, err := NewParser().ToNode(tree, bad); !errors.Is(err, symErrors.ErrUnknownOperator) {
		t.Fatalf("ToNode() error = %v, want unknown operator", err)
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d after failed ToNode, want 1", tree.Len())
	}
	if got := tree.Symbol(keep); got != "keep" {
		t.Errorf("Symbol(keep) = %q, want %q", got, "keep")
	}

	id, err := NewParser().ToNode(tree, &syntax.Symbol{Name: "y"})
	if err != nil {
		t.Fatalf("ToNode() error = %v", err)
	}
	if id != 1 {
		t.Errorf("ToNode() id = %d, want 1", id)
	}
}

func TestToNode_Deterministic(t *testing.T) {
	generic, err := syntax.Parse("1 + 2*x + x^2")
	if err != nil {
		t.Fatalf("syntax.Parse() error = %v", err)
	}
	p := NewParser()
	t1, t2 := ast.NewTree(), ast.NewTree()
	a, err := p.ToNode(t1, generic)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.ToNode(t2, generic)
	if err != nil {
		t.Fatal(err)
	}
	if !ast.Equal(t1, a, t2, b) {
		t.Errorf("ToNode() not deterministic: %q vs %q", t1.FullForm(a), t2.FullForm(b))
	}
}
