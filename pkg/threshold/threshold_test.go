package threshold

import (
	"errors"
	"testing"

	"github.com/danpilch/cbprobe/pkg/check"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw   string
		op    Operator
		value float64
	}{
		{">=85", GTE, 85},
		{"<=10", LTE, 10},
		{">0", GT, 0},
		{"<0.5", LT, 0.5},
		{"=3", EQ, 3},
		{" >= 95 ", GTE, 95},
		{">-1.5", GT, -1.5},
		{"<=1e3", LTE, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			e, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.raw, err)
			}
			if e.Op != tt.op {
				t.Errorf("Op = %v, want %v", e.Op.Symbol(), tt.op.Symbol())
			}
			if e.Value != tt.value {
				t.Errorf("Value = %v, want %v", e.Value, tt.value)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"", "85", "!=3", "=>5", "> =5", ">abc", ">", "~10", ">=NaN", ">=inf", "<+Inf", "=-Infinity"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalid", raw, err)
			}
		})
	}
}

func TestEvaluate_Operators(t *testing.T) {
	values := []float64{-1, 0, 4.999, 5, 5.001, 10}

	tests := []struct {
		expr string
		fn   func(v float64) bool
	}{
		{">=5", func(v float64) bool { return v >= 5 }},
		{"<=5", func(v float64) bool { return v <= 5 }},
		{">5", func(v float64) bool { return v > 5 }},
		{"<5", func(v float64) bool { return v < 5 }},
		{"=5", func(v float64) bool { return v == 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			for _, v := range values {
				got, err := Evaluate(v, tt.expr)
				if err != nil {
					t.Fatalf("Evaluate(%v, %q) error = %v", v, tt.expr, err)
				}
				if want := tt.fn(v); got != want {
					t.Errorf("Evaluate(%v, %q) = %v, want %v", v, tt.expr, got, want)
				}
			}
		})
	}
}

func TestEvaluate_PrefersTwoCharacterOperators(t *testing.T) {
	ok, err := Evaluate(5, ">=5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("Evaluate(5, \">=5\") = false, want true")
	}

	ok, err = Evaluate(5, "<=5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("Evaluate(5, \"<=5\") = false, want true")
	}
}

func TestEvaluate_ExactEquality(t *testing.T) {
	a, b := 0.1, 0.2
	ok, err := Evaluate(a+b, "=0.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("equality should be exact with no tolerance")
	}
}

func TestExpression_Describe(t *testing.T) {
	e := MustParse(">=95")
	got := e.Describe("quotaPercentUsed", 96.5)
	want := "The quotaPercentUsed is greater than or equal to expected. Value = 96.5, Threshold = 95"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestExpression_String(t *testing.T) {
	if got := MustParse(" <= 10.50").String(); got != "<=10.5" {
		t.Errorf("String() = %q, want %q", got, "<=10.5")
	}
}

func TestApply(t *testing.T) {
	base := check.NewResult("bucket")

	t.Run("empty expression", func(t *testing.T) {
		r := Apply(base, check.Warning, "x", 100, "")
		if len(r.Messages) != 0 {
			t.Errorf("expected no messages, got %v", r.Messages)
		}
	})

	t.Run("no breach", func(t *testing.T) {
		r := Apply(base, check.Warning, "x", 10, ">=85")
		if len(r.Messages) != 0 {
			t.Errorf("expected no messages, got %v", r.Messages)
		}
	})

	t.Run("breach", func(t *testing.T) {
		r := Apply(base, check.Warning, "x", 90, ">=85")
		if len(r.Messages) != 1 || r.Messages[0].Severity != check.Warning {
			t.Fatalf("expected one WARNING, got %v", r.Messages)
		}
	})

	t.Run("breach keeps percent signs", func(t *testing.T) {
		r := Apply(base, check.Critical, "hit%ratio", 50, "<90")
		want := "The hit%ratio is less than expected. Value = 50, Threshold = 90"
		if len(r.Messages) != 1 || r.Messages[0].Text != want {
			t.Errorf("messages = %v, want %q", r.Messages, want)
		}
	})

	t.Run("infinite threshold", func(t *testing.T) {
		r := Apply(base, check.Warning, "x", 90, ">=inf")
		if len(r.Messages) != 1 || r.Messages[0].Text != "Threshold invalid: >=inf" {
			t.Errorf("messages = %v", r.Messages)
		}
	})

	t.Run("invalid expression", func(t *testing.T) {
		r := Apply(base, check.Warning, "x", 90, "85")
		if len(r.Messages) != 1 {
			t.Fatalf("expected one message, got %v", r.Messages)
		}
		m := r.Messages[0]
		if m.Severity != check.Critical || m.Text != "Threshold invalid: 85" {
			t.Errorf("message = %+v", m)
		}
	})
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid input")
		}
	}()
	MustParse("bogus")
}
