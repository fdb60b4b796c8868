package eval_test

import (
	"testing"

	"symkernel/internal/builtins"
	"symkernel/internal/defs"
	"symkernel/internal/eval"
	"symkernel/internal/kerr"
	"symkernel/internal/value"
)

func newTestContext(t *testing.T) (*defs.Table, *eval.Context) {
	t.Helper()
	d := defs.New()
	if _, err := builtins.RegisterArithmetic(d); err != nil {
		t.Fatalf("RegisterArithmetic: %v", err)
	}
	return d, eval.NewContext(d)
}

func TestEvaluateUndefinedSymbolsAreFixedPoint(t *testing.T) {
	d, ctx := newTestContext(t)
	plus := d.Intern("System`Plus")
	a := d.Intern("a")
	b := d.Intern("b")
	expr := value.NewExpression(plus, []value.Expression{a, b})

	result, err := eval.NewEvaluator().Evaluate(expr, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Equal(expr) {
		t.Fatalf("Plus[a, b] should be its own fixed point, got %s", value.FullForm(result))
	}
}

func TestEvaluatePlusOfIntegers(t *testing.T) {
	d, ctx := newTestContext(t)
	plus := d.Intern("System`Plus")
	expr := value.NewExpression(plus, []value.Expression{
		value.MachineInteger(1), value.MachineInteger(2), value.MachineInteger(3),
	})

	result, err := eval.NewEvaluator().Evaluate(expr, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Equal(value.MachineInteger(6)) {
		t.Fatalf("Plus[1,2,3] = %s, want 6", value.FullForm(result))
	}
}

func TestEvaluateNestedPlusFoldsToSum(t *testing.T) {
	d, ctx := newTestContext(t)
	plus := d.Intern("System`Plus")
	inner := value.NewExpression(plus, []value.Expression{value.MachineInteger(2), value.MachineInteger(3)})
	expr := value.NewExpression(plus, []value.Expression{value.MachineInteger(1), inner})

	result, err := eval.NewEvaluator().Evaluate(expr, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Equal(value.MachineInteger(6)) {
		t.Fatalf("Plus[1, Plus[2,3]] = %s, want 6", value.FullForm(result))
	}
}

func TestEvaluateOrderlessCanonicalization(t *testing.T) {
	_, ctx := newTestContext(t)
	d := ctx.Defs.(*defs.Table)
	plus := d.Intern("System`Plus")
	a := d.Intern("a")
	b := d.Intern("b")

	ab := value.NewExpression(plus, []value.Expression{a, b})
	ba := value.NewExpression(plus, []value.Expression{b, a})

	ev := eval.NewEvaluator()
	r1, err := ev.Evaluate(ab, ctx)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := ev.Evaluate(ba, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !r1.Equal(r2) {
		t.Fatalf("Orderless canonicalization should make Plus[a,b] and Plus[b,a] equal, got %s vs %s",
			value.FullForm(r1), value.FullForm(r2))
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	d, ctx := newTestContext(t)
	plus := d.Intern("System`Plus")
	expr := value.NewExpression(plus, []value.Expression{
		value.MachineInteger(4), value.MachineInteger(5),
	})

	ev := eval.NewEvaluator()
	once, err := ev.Evaluate(expr, ctx)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := ev.Evaluate(once, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !once.Equal(twice) {
		t.Fatalf("evaluate(evaluate(e)) != evaluate(e): %s vs %s", value.FullForm(once), value.FullForm(twice))
	}
}

func TestEvaluateIterationLimitExceeded(t *testing.T) {
	d := defs.New()
	loop := d.Intern("Loop")
	expr := value.NewExpression(loop, nil)
	// Loop[] -> Loop[0] -> Loop[0] -> ... forever via a down-rule that
	// always "fires" by returning a fresh Loop[0], to exercise the ceiling
	// without requiring a real non-terminating builtin.
	loop.AddDownRule(loopingRule{})

	ctx := eval.NewContext(d)
	ctx.MaxIterations = 5

	_, err := eval.NewEvaluator().Evaluate(expr, ctx)
	if err == nil {
		t.Fatalf("expected an iteration-limit error")
	}
	kerrv, ok := err.(*kerr.KernelError)
	if !ok || kerrv.Kind != kerr.IterationLimit {
		t.Fatalf("expected kerr.IterationLimit, got %#v", err)
	}
}

type loopingRule struct{}

func (loopingRule) Apply(expr value.Expression, ctx value.Context) (value.Expression, bool, error) {
	e := expr.(*value.Expr)
	return value.NewExpression(e.Head(), []value.Expression{value.MachineInteger(0)}), true, nil
}

func TestEvaluateCancellation(t *testing.T) {
	d, ctx := newTestContext(t)
	plus := d.Intern("System`Plus")
	expr := value.NewExpression(plus, []value.Expression{d.Intern("a"), d.Intern("b")})

	ctx.CancelFlag = func() bool { return true }

	_, err := eval.NewEvaluator().Evaluate(expr, ctx)
	if err == nil {
		t.Fatalf("expected a cancellation error")
	}
	kerrv, ok := err.(*kerr.KernelError)
	if !ok || kerrv.Kind != kerr.Cancelled {
		t.Fatalf("expected kerr.Cancelled, got %#v", err)
	}
}
