// Package threshold parses and evaluates operator-prefixed threshold expressions
// such as ">=85" or "=0".
package threshold

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/danpilch/cbprobe/pkg/check"
)

// ErrInvalid is returned for expressions without a recognised operator or numeric literal.
var ErrInvalid = errors.New("threshold invalid")

// Operator is a comparison operator.
type Operator int

const (
	GTE Operator = iota
	LTE
	GT
	LT
	EQ
)

// operators lists operators in parse order: two-character prefixes first.
var operators = []Operator{GTE, LTE, GT, LT, EQ}

// Symbol returns the operator's textual prefix.
func (o Operator) Symbol() string {
	switch o {
	case GTE:
		return ">="
	case LTE:
		return "<="
	case GT:
		return ">"
	case LT:
		return "<"
	case EQ:
		return "="
	default:
		return "?"
	}
}

// Phrase returns the operator in words, as used in check messages.
func (o Operator) Phrase() string {
	switch o {
	case GTE:
		return "greater than or equal to"
	case LTE:
		return "less than or equal to"
	case GT:
		return "greater than"
	case LT:
		return "less than"
	case EQ:
		return "equal to"
	default:
		return "unknown"
	}
}

// Expression is a parsed threshold.
type Expression struct {
	Op    Operator
	Value float64
	Raw   string
}

// Parse parses an expression like ">=95".
func Parse(raw string) (Expression, error) {
	s := strings.TrimSpace(raw)
	for _, op := range operators {
		literal, ok := strings.CutPrefix(s, op.Symbol())
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(literal), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return Expression{}, fmt.Errorf("%w: %q", ErrInvalid, raw)
		}
		return Expression{Op: op, Value: value, Raw: raw}, nil
	}
	return Expression{}, fmt.Errorf("%w: %q", ErrInvalid, raw)
}

// MustParse is like Parse but panics on invalid input. Used for built-in defaults.
func MustParse(raw string) Expression {
	e, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return e
}

// Matches reports whether v satisfies the expression, i.e. the undesired condition holds.
// EQ compares exactly, without tolerance.
func (e Expression) Matches(v float64) bool {
	switch e.Op {
	case GTE:
		return v >= e.Value
	case LTE:
		return v <= e.Value
	case GT:
		return v > e.Value
	case LT:
		return v < e.Value
	case EQ:
		return v == e.Value
	default:
		return false
	}
}

// Describe formats the breach message for label.
func (e Expression) Describe(label string, v float64) string {
	return fmt.Sprintf("The %s is %s expected. Value = %s, Threshold = %s",
		label, e.Op.Phrase(), FormatValue(v), FormatValue(e.Value))
}

// String returns the canonical form of the expression.
func (e Expression) String() string {
	return e.Op.Symbol() + FormatValue(e.Value)
}

// Evaluate parses expr and reports whether value matches it.
func Evaluate(value float64, expr string) (bool, error) {
	e, err := Parse(expr)
	if err != nil {
		return false, err
	}
	return e.Matches(value), nil
}

// Apply evaluates expr against value and records the outcome on r.
// An empty expression leaves r unchanged; an invalid one is reported as CRITICAL.
func Apply(r check.Result, sev check.Severity, label string, value float64, expr string) check.Result {
	if strings.TrimSpace(expr) == "" {
		return r
	}
	e, err := Parse(expr)
	if err != nil {
		return r.Add(check.Critical, "Threshold invalid: %s", expr)
	}
	if e.Matches(value) {
		return r.Add(sev, "%s", e.Describe(label, value))
	}
	return r
}

// FormatValue renders a number in its shortest exact form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
