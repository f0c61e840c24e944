// Package label parses and evaluates boolean label expressions such as
// "linux && (x86 || arm) && !flaky" against a resource label set.
//
// Operators: "&&"/"AND", "||"/"OR", "!"/"NOT" and parentheses, with NOT
// binding tighter than AND and AND tighter than OR.
package label

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLabel is returned for a resource label that cannot be referenced by an expression
var ErrInvalidLabel = errors.New("label: invalid label")

// Expr represents a parsed label expression
type Expr interface {
	// Eval returns true if labels satisfy the expression
	Eval(labels map[string]bool) bool

	// String returns a normalized form of the expression
	String() string
}

type (
	labelExpr string

	notExpr struct {
		X Expr
	}

	andExpr struct {
		X, Y Expr
	}

	orExpr struct {
		X, Y Expr
	}
)

func (e labelExpr) Eval(labels map[string]bool) bool { return labels[string(e)] }
func (e labelExpr) String() string                   { return string(e) }

func (e *notExpr) Eval(labels map[string]bool) bool { return !e.X.Eval(labels) }
func (e *notExpr) String() string                   { return "!" + wrap(e.X) }

func (e *andExpr) Eval(labels map[string]bool) bool { return e.X.Eval(labels) && e.Y.Eval(labels) }
func (e *andExpr) String() string                   { return wrap(e.X) + " && " + wrap(e.Y) }

func (e *orExpr) Eval(labels map[string]bool) bool { return e.X.Eval(labels) || e.Y.Eval(labels) }
func (e *orExpr) String() string                   { return wrap(e.X) + " || " + wrap(e.Y) }

func wrap(e Expr) string {
	switch e.(type) {
	case labelExpr, *notExpr:
		return e.String()
	}
	return "(" + e.String() + ")"
}

// Labels returns distinct label tokens referenced by the expression, in order of appearance
func Labels(e Expr) []string {
	var result []string
	seen := map[string]bool{}
	var visit func(Expr)
	visit = func(node Expr) {
		switch actual := node.(type) {
		case labelExpr:
			if !seen[string(actual)] {
				seen[string(actual)] = true
				result = append(result, string(actual))
			}
		case *notExpr:
			visit(actual.X)
		case *andExpr:
			visit(actual.X)
			visit(actual.Y)
		case *orExpr:
			visit(actual.X)
			visit(actual.Y)
		}
	}
	visit(e)
	return result
}

// IsSimple returns true if the expression is a single label with no operators
func IsSimple(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}
	for i := 0; i < len(expr); i++ {
		if isDelimiter(expr[i]) {
			return false
		}
	}
	switch expr {
	case keywordAnd, keywordOr, keywordNot:
		return false
	}
	return true
}

// Validate returns ErrInvalidLabel for the first label containing an operator
// character or equal to an operator keyword
func Validate(labels ...string) error {
	for _, item := range labels {
		if !IsSimple(item) {
			return fmt.Errorf("%w: %q", ErrInvalidLabel, item)
		}
	}
	return nil
}

// Match parses expr and evaluates it against labels
func Match(expr string, labels []string) (bool, error) {
	e, err := Parse(expr)
	if err != nil {
		return false, err
	}
	set := make(map[string]bool, len(labels))
	for _, item := range labels {
		set[item] = true
	}
	return e.Eval(set), nil
}
