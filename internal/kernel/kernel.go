// Package kernel is the thin facade the core exposes: MakeExpression,
// Evaluate, Match (with its Result accessors), and FullForm. It does no
// work of its own beyond wiring internal/value, internal/match and
// internal/eval together behind one import.
package kernel

import (
	"symkernel/internal/eval"
	"symkernel/internal/match"
	"symkernel/internal/value"
)

// MakeExpression constructs a composite expression.
func MakeExpression(head value.Expression, leaves []value.Expression) *value.Expr {
	return value.NewExpression(head, leaves)
}

// Evaluate is the evaluate(expr, eval_ctx) -> expr entry point.
func Evaluate(expr value.Expression, ctx *eval.Context) (value.Expression, error) {
	return eval.NewEvaluator().Evaluate(expr, ctx)
}

// Match is the match(pattern, subject, definitions) -> Result entry point.
func Match(pattern, subject value.Expression, defs value.Definitions) (*match.Result, error) {
	return match.Match(pattern, subject, defs)
}

// FullForm is the stable textual protocol for an expression.
func FullForm(expr value.Expression) string {
	return value.FullForm(expr)
}
