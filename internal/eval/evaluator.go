// Package eval implements the fixed-point driver: given an expression,
// evaluate its head, evaluate its leaves subject to Hold attributes,
// apply up/sub/down rules in order, and loop until no rule fires.
package eval

import (
	"symkernel/internal/kerr"
	"symkernel/internal/value"
)

// Evaluator drives one-step reduction to a fixed point. It holds no
// mutable state of its own; all of that lives in Context, so a single
// Evaluator value can be reused across calls (though the canonical usage
// is one Evaluator/Definitions pair per goroutine).
type Evaluator struct{}

// NewEvaluator constructs an Evaluator. There is nothing to configure on
// the Evaluator itself; per-call knobs (iteration ceiling, cancellation,
// up-value policy) live on Context.
func NewEvaluator() *Evaluator { return &Evaluator{} }

// Evaluate repeats one-step reduction while it produces a change, and
// returns the original expression unchanged if no step ever changes it.
func (ev *Evaluator) Evaluate(expr value.Expression, ctx *Context) (value.Expression, error) {
	current := expr
	iterations := 0
	limit := ctx.maxIterations()

	for {
		if ctx.Cancelled() {
			return nil, kerr.Cancel(ctx.SessionID)
		}
		iterations++
		if iterations > limit {
			return nil, kerr.LimitExceeded(ctx.SessionID, value.FullForm(current), iterations-1)
		}

		next, changed, err := ev.step(current, ctx)
		if err != nil {
			return nil, err
		}
		if !changed {
			return current, nil
		}
		current = next
	}
}

// step performs exactly one reduction step.
func (ev *Evaluator) step(expr value.Expression, ctx *Context) (value.Expression, bool, error) {
	switch v := expr.(type) {
	case *value.Expr:
		return ev.stepExpr(v, ctx)
	case *value.Symbol:
		// Own-values are a reserved hook; Symbol carries no own-rules
		// storage yet, so there is nothing to try and a bare symbol is
		// always a fixed point.
		return v, false, nil
	default:
		return expr, false, nil // any other atom is a fixed point.
	}
}

func (ev *Evaluator) stepExpr(e *value.Expr, ctx *Context) (value.Expression, bool, error) {
	if ctx.Cancelled() {
		return nil, false, kerr.Cancel(ctx.SessionID)
	}

	// 1. Evaluate the head to a fixed point.
	newHead, err := ev.Evaluate(e.Head(), ctx)
	if err != nil {
		return nil, false, err
	}

	var attrs value.Attributes
	if sym, ok := newHead.(*value.Symbol); ok {
		attrs = sym.Attributes()
	}

	// 2. Evaluate the leaves according to Hold attributes.
	begin, end, holdAllComplete := holdRange(attrs, e.Leaves().Size())
	afterLeaves, leavesChanged, err := ev.evalLeaves(e, newHead, begin, end, ctx)
	if err != nil {
		return nil, false, err
	}

	if holdAllComplete {
		// HoldAllComplete stops one-step evaluation right after leaves.
		return afterLeaves, leavesChanged, nil
	}

	current := afterLeaves.(*value.Expr)
	canon, canonChanged := canonicalize(current, attrs)
	current = canon
	changed := leavesChanged || canonChanged

	// Apply UpValues, SubValues, DownValues, ordered per
	// ctx.UpValuePolicy.
	if ctx.UpValuePolicy == UpBeforeDown {
		if res, fired, err := ev.tryUpValues(current, ctx); err != nil {
			return nil, false, err
		} else if fired {
			return res, true, nil
		}
	}

	if res, fired, err := ev.trySubValues(current, ctx); err != nil {
		return nil, false, err
	} else if fired {
		return res, true, nil
	}

	if res, fired, err := ev.tryDownValues(current, ctx); err != nil {
		return nil, false, err
	} else if fired {
		return res, true, nil
	}

	if ctx.UpValuePolicy == DownBeforeUp {
		if res, fired, err := ev.tryUpValues(current, ctx); err != nil {
			return nil, false, err
		} else if fired {
			return res, true, nil
		}
	}

	return current, changed, nil
}

// holdRange computes which leaves get evaluated, per attrs' Hold* bit.
// Symbol.SetAttributes already enforces that at most one Hold* bit is
// set, so these cases are mutually exclusive.
func holdRange(attrs value.Attributes, n int) (begin, end int, holdAllComplete bool) {
	switch {
	case attrs.Has(value.HoldAllComplete):
		return 0, 0, true
	case attrs.Has(value.HoldAll):
		return 0, 0, false
	case attrs.Has(value.HoldFirst):
		if n == 0 {
			return 0, 0, false
		}
		return 1, n, false
	case attrs.Has(value.HoldRest):
		if n == 0 {
			return 0, 0, false
		}
		return 0, 1, false
	default:
		return 0, n, false
	}
}

// evalLeaves evaluates e's leaves in [begin,end) left-to-right to a fixed
// point, preserving everything else, with the same "unchanged if nothing
// in range changed and head is the same" no-op contract as value.Apply.
// It is reimplemented here rather than calling value.Apply directly
// because each leaf's evaluation can itself fail.
func (ev *Evaluator) evalLeaves(e *value.Expr, head value.Expression, begin, end int, ctx *Context) (value.Expression, bool, error) {
	n := e.Leaves().Size()
	headChanged := !head.Equal(e.Head())

	var out []value.Expression
	for i := begin; i < end; i++ {
		leaf := e.Leaves().At(i)
		newLeaf, err := ev.Evaluate(leaf, ctx)
		if err != nil {
			return nil, false, err
		}
		changed := !newLeaf.Equal(leaf)
		if changed && out == nil {
			out = make([]value.Expression, 0, n-begin)
			for j := begin; j < i; j++ {
				out = append(out, e.Leaves().At(j))
			}
		}
		if out != nil {
			out = append(out, newLeaf)
		}
	}

	if out == nil && !headChanged {
		return e, false, nil
	}

	full := make([]value.Expression, 0, n)
	for i := 0; i < begin; i++ {
		full = append(full, e.Leaves().At(i))
	}
	if out != nil {
		full = append(full, out...)
	} else {
		for i := begin; i < end; i++ {
			full = append(full, e.Leaves().At(i))
		}
	}
	for i := end; i < n; i++ {
		full = append(full, e.Leaves().At(i))
	}
	return value.NewExpression(head, full), true, nil
}

// tryUpValues tries the up-rules of each distinct leaf head symbol, in
// leaf order, first success wins. Provided as a real (if simple) hook
// rather than a stub, since nothing in the data model prevents leaves
// from carrying up-rules.
func (ev *Evaluator) tryUpValues(e *value.Expr, ctx *Context) (value.Expression, bool, error) {
	n := e.Leaves().Size()
	seen := make(map[*value.Symbol]bool, n)
	for i := 0; i < n; i++ {
		sym := headSymbolOf(e.Leaves().At(i))
		if sym == nil || seen[sym] {
			continue
		}
		seen[sym] = true
		for _, r := range sym.UpRules() {
			if ctx.Cancelled() {
				return nil, false, kerr.Cancel(ctx.SessionID)
			}
			result, changed, err := r.Apply(e, ctx)
			if err != nil {
				return nil, false, err
			}
			if changed {
				return result, true, nil
			}
		}
	}
	return nil, false, nil
}

// trySubValues: if the head is itself a composite expression whose own
// head is a symbol S, try S.SubRules() in order.
func (ev *Evaluator) trySubValues(e *value.Expr, ctx *Context) (value.Expression, bool, error) {
	headExpr, ok := e.Head().(*value.Expr)
	if !ok {
		return nil, false, nil
	}
	sym, ok := headExpr.Head().(*value.Symbol)
	if !ok {
		return nil, false, nil
	}
	return tryRules(sym.SubRules(), e, ctx)
}

// tryDownValues: if the head is a symbol S, try S.DownRules() in order.
func (ev *Evaluator) tryDownValues(e *value.Expr, ctx *Context) (value.Expression, bool, error) {
	sym, ok := e.Head().(*value.Symbol)
	if !ok {
		return nil, false, nil
	}
	return tryRules(sym.DownRules(), e, ctx)
}

func tryRules(rules []value.Rule, e *value.Expr, ctx *Context) (value.Expression, bool, error) {
	for _, r := range rules {
		if ctx.Cancelled() {
			return nil, false, kerr.Cancel(ctx.SessionID)
		}
		result, changed, err := r.Apply(e, ctx)
		if err != nil {
			return nil, false, err
		}
		if changed {
			return result, true, nil
		}
	}
	return nil, false, nil
}

func headSymbolOf(e value.Expression) *value.Symbol {
	switch v := e.(type) {
	case *value.Symbol:
		return v
	case *value.Expr:
		if s, ok := v.Head().(*value.Symbol); ok {
			return s
		}
	}
	return nil
}
