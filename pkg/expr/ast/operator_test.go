package ast

import (
	"errors"
	"strings"
	"testing"

	symErrors "mercator-hq/symc/pkg/expr/errors"
)

func TestOperator_Catalog(t *testing.T) {
	tests := []struct {
		op       Operator
		symbol   string
		priority int
		name     string
	}{
		{Plus, "+", 2, "Plus"},
		{Minus, "-", 2, "Minus"},
		{Times, "*", 3, "Times"},
		{Power, "^", 4, "Power"},
		{UnaryMinus, "-", 4, "UnaryMinus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.Symbol(); got != tt.symbol {
				t.Errorf("Symbol() = %q, want %q", got, tt.symbol)
			}
			if got := tt.op.Priority(); got != tt.priority {
				t.Errorf("Priority() = %d, want %d", got, tt.priority)
			}
			if got := tt.op.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestOperator_PriorityOrdering(t *testing.T) {
	if !(Plus.Priority() == Minus.Priority() &&
		Minus.Priority() < Times.Priority() &&
		Times.Priority() < Power.Priority() &&
		Power.Priority() == UnaryMinus.Priority()) {
		t.Errorf("priority ordering violated: Plus=%d Minus=%d Times=%d Power=%d UnaryMinus=%d",
			Plus.Priority(), Minus.Priority(), Times.Priority(), Power.Priority(), UnaryMinus.Priority())
	}
}

func TestOperators_DeclarationOrder(t *testing.T) {
	got := strings.Join(OperatorNames(), ",")
	want := "Plus,Minus,Times,Power,UnaryMinus"
	if got != want {
		t.Errorf("OperatorNames() = %q, want %q", got, want)
	}
}

func TestParseOperator(t *testing.T) {
	for _, op := range Operators() {
		got, err := ParseOperator(op.String())
		if err != nil {
			t.Errorf("ParseOperator(%q) error = %v", op, err)
			continue
		}
		if got != op {
			t.Errorf("ParseOperator(%q) = %q, want %q", op, got, op)
		}
	}
}

func TestParseOperator_Unknown(t *testing.T) {
	tests := []struct {
		name       string
		suggestion string
	}{
		{"UnknownOperator", ""},
		{"plus", "Did you mean 'Plus'?"},
		{"PLUS", "Did you mean 'Plus'?"},
		{"", ""},
		{"Sin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := ParseOperator(tt.name)
			if err == nil {
				t.Fatalf("ParseOperator(%q) = %q, want error", tt.name, op)
			}
			if !errors.Is(err, symErrors.ErrUnknownOperator) {
				t.Errorf("error = %v, want unknown operator", err)
			}
			if op != OperatorInvalid {
				t.Errorf("op = %q, want OperatorInvalid", op)
			}
			var e *symErrors.Error
			if tt.suggestion != "" && errors.As(err, &e) && e.Suggestion != tt.suggestion {
				t.Errorf("Suggestion = %q, want %q", e.Suggestion, tt.suggestion)
			}
		})
	}
}

func TestOperator_Arity(t *testing.T) {
	tests := []struct {
		op   Operator
		n    int
		want bool
	}{
		{Plus, 1, false},
		{Plus, 2, true},
		{Plus, 5, true},
		{Minus, 2, true},
		{Minus, 3, false},
		{Times, 3, true},
		{Power, 2, true},
		{Power, 3, false},
		{UnaryMinus, 1, true},
		{UnaryMinus, 2, false},
		{OperatorInvalid, 2, false},
	}
	for _, tt := range tests {
		if got := tt.op.AcceptsOperands(tt.n); got != tt.want {
			t.Errorf("%s.AcceptsOperands(%d) = %v, want %v", tt.op, tt.n, got, tt.want)
		}
	}
	if !UnaryMinus.IsUnary() || Minus.IsUnary() {
		t.Error("IsUnary() wrong for UnaryMinus/Minus")
	}
	if Power.Associativity() != AssocRight {
		t.Errorf("Power.Associativity() = %q, want %q", Power.Associativity(), AssocRight)
	}
}
