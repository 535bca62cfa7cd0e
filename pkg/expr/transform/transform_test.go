package transform

import (
	"errors"
	"slices"
	"testing"

	"mercator-hq/symc/pkg/expr/ast"
	symErrors "mercator-hq/symc/pkg/expr/errors"
	"mercator-hq/symc/pkg/expr/parser"
)

func mustParse(t *testing.T, text string) *ast.Tree {
	t.Helper()
	tree, _, err := parser.NewParser().Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", text, err)
	}
	return tree
}

func TestApplyAll_PreOrderIncludingRoot(t *testing.T) {
	tree := mustParse(t, "Times[Plus[a, b], c]")

	var visited []string
	rule := RuleFunc(func(t *ast.Tree, id ast.NodeID, _ Queue) {
		visited = append(visited, t.FullForm(id))
	})
	if err := ApplyAll(tree, tree.Root(), NewReplaceQueue(), rule); err != nil {
		t.Fatalf("ApplyAll() error = %v", err)
	}

	want := []string{"Times[Plus[a, b], c]", "Times", "Plus[a, b]", "Plus", "a", "b", "c"}
	if !slices.Equal(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestApplyAll_NullArguments(t *testing.T) {
	tree := mustParse(t, "x")
	rule := RuleFunc(func(*ast.Tree, ast.NodeID, Queue) {})
	q := NewReplaceQueue()

	tests := []struct {
		name string
		call func() error
	}{
		{"nil tree", func() error { return ApplyAll(nil, 0, q, rule) }},
		{"absent node", func() error { return ApplyAll(tree, ast.NoNode, q, rule) }},
		{"nil queue", func() error { return ApplyAll(tree, tree.Root(), nil, rule) }},
		{"nil rule", func() error { return ApplyAll(tree, tree.Root(), q, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, symErrors.ErrNullArgument) {
				t.Errorf("ApplyAll() error = %v, want null argument", err)
			}
		})
	}
}

func TestApply_DelegatesToApplyAll(t *testing.T) {
	tree := mustParse(t, "Plus[a, b]")
	count := 0
	rule := RuleFunc(func(*ast.Tree, ast.NodeID, Queue) { count++ })

	res, err := Apply(tree, tree.Root(), NewReplaceQueue(), rule)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Replaced {
		t.Error("Result.Replaced = true, want false")
	}
	if !res.Traversed {
		t.Error("Result.Traversed = false, want true")
	}
	if count != 4 {
		t.Errorf("visits = %d, want 4", count)
	}

	if _, err := Apply(tree, tree.Root(), nil, rule); !errors.Is(err, symErrors.ErrNullArgument) {
		t.Errorf("Apply(nil queue) error = %v, want null argument", err)
	}
}

func TestReplaceQueue_FlushSkipsReplacedSubtrees(t *testing.T) {
	tree := mustParse(t, "Plus[a, Times[b, c]]")
	root := tree.Root()
	times := tree.Child(root, 2)
	b := tree.Child(times, 1)

	q := NewReplaceQueue()
	q.Replace(times, tree.NewSymbol("y"))
	q.Replace(b, tree.NewSymbol("z"))
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	applied, err := q.Flush(tree)
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if got := tree.FullForm(tree.Root()); got != "Plus[a, y]" {
		t.Errorf("FullForm() = %q, want %q", got, "Plus[a, y]")
	}
	if q.Len() != 0 {
		t.Errorf("Len() after Flush = %d, want 0", q.Len())
	}
}

func TestReplaceQueue_FlushRoot(t *testing.T) {
	tree := mustParse(t, "Times[-1, x]")
	q := NewReplaceQueue()
	q.Replace(tree.Root(), tree.NewSymbol("r"))
	if _, err := q.Flush(tree); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := tree.FullForm(tree.Root()); got != "r" {
		t.Errorf("root = %q, want %q", got, "r")
	}
}

func TestReplaceQueue_FlushRejectsCycle(t *testing.T) {
	tree := mustParse(t, "Plus[a, b]")
	root := tree.Root()
	a := tree.Child(root, 1)

	q := NewReplaceQueue()
	q.Replace(a, root)
	if _, err := q.Flush(tree); !errors.Is(err, symErrors.ErrMalformed) {
		t.Fatalf("Flush() error = %v, want malformed", err)
	}
	if got := len(tree.Descendants(root)); got != 3 {
		t.Errorf("len(Descendants(root)) = %d, want 3", got)
	}
	if got := tree.FullForm(tree.Root()); got != "Plus[a, b]" {
		t.Errorf("FullForm() = %q, want %q", got, "Plus[a, b]")
	}
}

func TestRemoveMinusMult(t *testing.T) {
	tests := []struct {
		input string
		want  string // empty means no replacement
	}{
		{"Times[-1, x]", "UnaryMinus[x]"},
		{"Times[-1, x, y]", "UnaryMinus[Times[x, y]]"},
		{"Times[-1, Plus[a, b]]", "UnaryMinus[Plus[a, b]]"},
		{"Times[-2, x]", ""},
		{"Times[x, -1]", ""},
		{"Plus[-1, x]", ""},
		{"x", ""},
		{"-1", ""},
		{"Times[-1]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree := mustParse(t, tt.input)
			q := NewReplaceQueue()
			RemoveMinusMult{}.Visit(tree, tree.Root(), q)

			if tt.want == "" {
				if q.Len() != 0 {
					t.Errorf("queued %d replacement(s), want none", q.Len())
				}
				return
			}
			pending := q.Pending()
			if len(pending) != 1 {
				t.Fatalf("queued %d replacement(s), want 1", len(pending))
			}
			if pending[0].Old != tree.Root() {
				t.Errorf("Old = %d, want root %d", pending[0].Old, tree.Root())
			}
			if got := tree.FullForm(pending[0].New); got != tt.want {
				t.Errorf("New = %q, want %q", got, tt.want)
			}
			if tree.Kind(pending[0].New) != ast.KindFunction {
				t.Errorf("New kind = %q, want Function", tree.Kind(pending[0].New))
			}
		})
	}
}

func TestFoldMinus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Plus[a, UnaryMinus[b]]", "Minus[a, b]"},
		{"Plus[a, b, UnaryMinus[c]]", "Minus[Plus[a, b], c]"},
		{"Plus[a, UnaryMinus[b], c]", "Plus[Minus[a, b], c]"},
		{"Plus[a, UnaryMinus[b], UnaryMinus[c]]", "Minus[Minus[a, b], c]"},
		{"Plus[a, -5]", "Minus[a, 5]"},
		{"Plus[a, UnaryMinus[-5]]", ""},
		{"Plus[UnaryMinus[a], b]", ""},
		{"Plus[a, b]", ""},
		{"Plus[a, -1*b]", ""},
		{"Times[a, UnaryMinus[b]]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree := mustParse(t, tt.input)
			q := NewReplaceQueue()
			FoldMinus{}.Visit(tree, tree.Root(), q)

			pending := q.Pending()
			if tt.want == "" {
				if len(pending) != 0 {
					t.Errorf("queued %s, want none", tree.FullForm(pending[0].New))
				}
				return
			}
			if len(pending) != 1 {
				t.Fatalf("queued %d replacement(s), want 1", len(pending))
			}
			if got := tree.FullForm(pending[0].New); got != tt.want {
				t.Errorf("New = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveRedundantParenthesis(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  []int // child indexes from the root
		want  bool  // HasParenthesis after the pass
	}{
		{"root", "Plus[a, b]", nil, false},
		{"higher priority child", "Plus[a, Times[b, c]]", []int{2}, false},
		{"equal priority left operand", "Minus[Plus[a, b], c]", []int{1}, false},
		{"equal priority right operand", "Minus[a, Plus[b, c]]", []int{2}, true},
		{"lower priority child", "Times[Plus[a, b], c]", []int{1}, true},
		{"power base", "Power[Power[a, b], c]", []int{1}, true},
		{"power exponent", "Power[a, Power[b, c]]", []int{2}, false},
		{"double negation", "UnaryMinus[UnaryMinus[x]]", []int{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.input)
			if err := ApplyAll(tree, tree.Root(), NewReplaceQueue(), RemoveRedundantParenthesis{}); err != nil {
				t.Fatalf("ApplyAll() error = %v", err)
			}
			id := tree.Root()
			for _, i := range tt.path {
				id = tree.Child(id, i)
			}
			if got := tree.HasParenthesis(id); got != tt.want {
				t.Errorf("HasParenthesis(%s) = %v, want %v", tree.FullForm(id), got, tt.want)
			}
		})
	}
}

func TestRemoveRedundantParenthesis_Malformed(t *testing.T) {
	tree := ast.NewTree()
	empty, _ := tree.NewFunction()
	x := tree.NewSymbol("x")
	odd, _ := tree.NewFunction(empty, x)
	if err := tree.SetRoot(odd); err != nil {
		t.Fatal(err)
	}

	if err := ApplyAll(tree, tree.Root(), NewReplaceQueue(), RemoveRedundantParenthesis{}); err != nil {
		t.Fatalf("ApplyAll() error = %v", err)
	}
	if tree.HasParenthesis(odd) {
		t.Error("root HasParenthesis = true, want false")
	}
}

func TestRemoveRedundantParenthesis_NeverSets(t *testing.T) {
	tree := mustParse(t, "Times[Plus[a, b], c]")
	inner := tree.Child(tree.Root(), 1)
	tree.SetHasParenthesis(inner, false)

	if err := ApplyAll(tree, tree.Root(), NewReplaceQueue(), RemoveRedundantParenthesis{}); err != nil {
		t.Fatalf("ApplyAll() error = %v", err)
	}
	if tree.HasParenthesis(inner) {
		t.Error("HasParenthesis = true, want the explicit false kept")
	}
}
