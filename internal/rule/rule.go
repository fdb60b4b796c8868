// Package rule is the glue between the matcher and the evaluator: it
// runs a rule's left-hand side against an expression and, on success,
// substitutes captured variables into the right-hand side.
package rule

import (
	"symkernel/internal/kerr"
	"symkernel/internal/match"
	"symkernel/internal/value"
)

// PatternRule is the standard rule form: lhs -> rhs. Apply runs the
// matcher with lhs against the expression and, on success, walks rhs
// replacing named symbols with their bound value. On failure it returns
// "unchanged" (false, nil error); a mismatch is never an error.
type PatternRule struct {
	LHS value.Expression
	RHS value.Expression
}

// NewPatternRule builds an "lhs -> rhs" rule.
func NewPatternRule(lhs, rhs value.Expression) *PatternRule {
	return &PatternRule{LHS: lhs, RHS: rhs}
}

func (r *PatternRule) Apply(expr value.Expression, ctx value.Context) (value.Expression, bool, error) {
	result, err := match.Match(r.LHS, expr, ctx.Definitions())
	if err != nil {
		return nil, false, err
	}
	if !result.Success() {
		return nil, false, nil
	}
	return substitute(r.RHS, result), true, nil
}

// substitute walks rhs replacing every symbol that has a binding in
// result with its bound value; everything else (including symbols with
// no binding, e.g. Plus itself) is kept as-is.
func substitute(rhs value.Expression, result *match.Result) value.Expression {
	switch v := rhs.(type) {
	case *value.Symbol:
		// Resolved by *Symbol identity, the same key the matcher binds
		// under, so no name string is compared here.
		for _, b := range result.Bindings() {
			if b.Symbol == v {
				return b.Value
			}
		}
		return v
	case *value.Expr:
		leaves := v.Leaves()
		n := leaves.Size()
		newLeaves := make([]value.Expression, n)
		changed := false
		for i := 0; i < n; i++ {
			orig := leaves.At(i)
			repl := substitute(orig, result)
			newLeaves[i] = repl
			if repl != orig {
				changed = true
			}
		}
		newHead := substitute(v.Head(), result)
		if !changed && newHead == v.Head() {
			return v
		}
		return value.NewExpression(newHead, newLeaves)
	default:
		return rhs
	}
}

// NativeFunc is a Go callback implementing the generic rule contract: a
// callable (expression, evaluation-context) -> optional expression.
// External builtins (arithmetic, etc., outside core scope) attach these
// as down/sub/up-values instead of an lhs->rhs pair.
type NativeFunc func(expr value.Expression, ctx value.Context) (value.Expression, bool, error)

// NativeRule adapts a NativeFunc to value.Rule, wrapping any error the
// callback returns so it still carries the original cause.
type NativeRule struct {
	Name string
	Fn   NativeFunc
}

func (r *NativeRule) Apply(expr value.Expression, ctx value.Context) (value.Expression, bool, error) {
	result, changed, err := r.Fn(expr, ctx)
	if err != nil {
		return nil, false, kerr.WrapRule(err, value.FullForm(expr))
	}
	return result, changed, nil
}
