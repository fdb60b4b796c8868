// Package builtins is a minimal stand-in for the arithmetic built-ins
// (Plus, Range, etc.) that live outside the core's extension contract.
// It exists to exercise the evaluator/matcher against something concrete
// and to demonstrate the NativeRule extension point.
package builtins

import (
	"symkernel/internal/defs"
	"symkernel/internal/rule"
	"symkernel/internal/value"
)

// RegisterArithmetic interns System`Plus with Flat|Orderless|OneIdentity
// and attaches an integer-folding down-rule, then returns the symbol.
func RegisterArithmetic(t *defs.Table) (*value.Symbol, error) {
	plus := t.Intern("System`Plus")
	if err := plus.SetAttributes(value.Flat | value.Orderless | value.OneIdentity); err != nil {
		return nil, err
	}
	plus.AddDownRule(&rule.NativeRule{Name: "Plus/integers", Fn: plusIntegers})
	return plus, nil
}

// plusIntegers folds every MachineInteger leaf into a single running sum,
// leaving non-integer leaves untouched. It declines ("unchanged") unless
// at least two leaves are foldable, so e.g. Plus[a, b] with undefined
// symbols stays a fixed point.
func plusIntegers(expr value.Expression, ctx value.Context) (value.Expression, bool, error) {
	e, ok := expr.(*value.Expr)
	if !ok {
		return nil, false, nil
	}

	n := e.Leaves().Size()
	var sum int64
	count := 0
	rest := make([]value.Expression, 0, n)

	for i := 0; i < n; i++ {
		leaf := e.Leaves().At(i)
		if mi, ok := leaf.(value.MachineInteger); ok {
			sum += int64(mi)
			count++
			continue
		}
		rest = append(rest, leaf)
	}

	if count < 2 {
		return nil, false, nil
	}
	if len(rest) == 0 {
		return value.MachineInteger(sum), true, nil
	}
	newLeaves := append(rest, value.MachineInteger(sum))
	return value.NewExpression(e.Head(), newLeaves), true, nil
}
