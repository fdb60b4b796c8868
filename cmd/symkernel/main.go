// Command symkernel is a flagless smoke test: it builds a definitions
// table and the minimal arithmetic builtin, runs a set of end-to-end
// scenarios, and exits 0 if every one of them holds, 1 otherwise,
// printing the failing scenario and its full-form expression along the
// way, the way the teacher's cmd/sentra gates colored status lines on
// terminal detection.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"symkernel/internal/builtins"
	"symkernel/internal/defs"
	"symkernel/internal/eval"
	"symkernel/internal/kernel"
	"symkernel/internal/value"
)

func main() {
	if !runSmokeTest() {
		os.Exit(1)
	}
}

// runSmokeTest runs every end-to-end scenario and reports PASS/FAIL for
// each; it returns true only if all of them held. Split out from main so
// the testscript harness can drive it in-process without a build step.
func runSmokeTest() bool {
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	table := defs.New()
	if _, err := builtins.RegisterArithmetic(table); err != nil {
		fmt.Fprintln(os.Stderr, "symkernel: failed to register builtins:", err)
		return false
	}

	ctx := eval.NewContext(table)

	ok := true
	for _, sc := range scenarios(table) {
		err := sc.run(ctx)
		ok = report(sc.name, err, color) && ok
	}
	return ok
}

type scenario struct {
	name string
	run  func(*eval.Context) error
}

func scenarios(t *defs.Table) []scenario {
	a := t.Intern("a")
	b := t.Intern("b")
	plus := t.Intern("System`Plus")

	return []scenario{
		{
			name: "Plus[a, b] is a fixed point",
			run: func(ctx *eval.Context) error {
				expr := kernel.MakeExpression(plus, []value.Expression{a, b})
				result, err := kernel.Evaluate(expr, ctx)
				if err != nil {
					return err
				}
				if !result.Equal(expr) {
					return fmt.Errorf("expected fixed point %s, got %s", kernel.FullForm(expr), kernel.FullForm(result))
				}
				return nil
			},
		},
		{
			name: "Plus[1, 2, 3] evaluates to 6",
			run: func(ctx *eval.Context) error {
				expr := kernel.MakeExpression(plus, []value.Expression{
					value.MachineInteger(1), value.MachineInteger(2), value.MachineInteger(3),
				})
				result, err := kernel.Evaluate(expr, ctx)
				if err != nil {
					return err
				}
				want := value.MachineInteger(6)
				if !result.Equal(want) {
					return fmt.Errorf("expected 6, got %s", kernel.FullForm(result))
				}
				return nil
			},
		},
		{
			name: "Plus[1, Plus[2, 3]] flattens to 6",
			run: func(ctx *eval.Context) error {
				inner := kernel.MakeExpression(plus, []value.Expression{value.MachineInteger(2), value.MachineInteger(3)})
				expr := kernel.MakeExpression(plus, []value.Expression{value.MachineInteger(1), inner})
				result, err := kernel.Evaluate(expr, ctx)
				if err != nil {
					return err
				}
				want := value.MachineInteger(6)
				if !result.Equal(want) {
					return fmt.Errorf("expected 6, got %s", kernel.FullForm(result))
				}
				return nil
			},
		},
		{
			name: "match(Blank[], 42) succeeds with no bindings",
			run: func(ctx *eval.Context) error {
				blank := kernel.MakeExpression(t.Blank(), nil)
				result, err := kernel.Match(blank, value.MachineInteger(42), t)
				if err != nil {
					return err
				}
				if !result.Success() {
					return fmt.Errorf("expected match success")
				}
				if len(result.Bindings()) != 0 {
					return fmt.Errorf("expected no bindings, got %d", len(result.Bindings()))
				}
				return nil
			},
		},
		{
			name: "match(Pattern[x, Blank[]], 42) binds x -> 42",
			run: func(ctx *eval.Context) error {
				x := t.Intern("x")
				pat := kernel.MakeExpression(t.Pattern(), []value.Expression{x, kernel.MakeExpression(t.Blank(), nil)})
				result, err := kernel.Match(pat, value.MachineInteger(42), t)
				if err != nil {
					return err
				}
				if !result.Success() {
					return fmt.Errorf("expected match success")
				}
				v, ok := result.Binding("x")
				if !ok || !v.Equal(value.MachineInteger(42)) {
					return fmt.Errorf("expected x -> 42, got %v", v)
				}
				return nil
			},
		},
		{
			name: "match(f[Pattern[x,_], Pattern[x,_]], f[1,2]) fails on inconsistency",
			run: func(ctx *eval.Context) error {
				f := t.Intern("f")
				x := t.Intern("x")
				blank := kernel.MakeExpression(t.Blank(), nil)
				patX := kernel.MakeExpression(t.Pattern(), []value.Expression{x, blank})
				pat := kernel.MakeExpression(f, []value.Expression{patX, patX})
				subj := kernel.MakeExpression(f, []value.Expression{value.MachineInteger(1), value.MachineInteger(2)})
				result, err := kernel.Match(pat, subj, t)
				if err != nil {
					return err
				}
				if result.Success() {
					return fmt.Errorf("expected match failure on inconsistent binding")
				}
				return nil
			},
		},
		{
			name: "match(g[BlankNullSequence[]], g[]) succeeds",
			run: func(ctx *eval.Context) error {
				g := t.Intern("g")
				bns := kernel.MakeExpression(t.BlankNullSequence(), nil)
				pat := kernel.MakeExpression(g, []value.Expression{bns})
				subj := kernel.MakeExpression(g, nil)
				result, err := kernel.Match(pat, subj, t)
				if err != nil {
					return err
				}
				if !result.Success() {
					return fmt.Errorf("expected match success on empty BlankNullSequence")
				}
				return nil
			},
		},
		{
			name: "match(g[BlankSequence[], Pattern[t,Blank[]]], g[1,2,3]) binds t -> 3",
			run: func(ctx *eval.Context) error {
				g := t.Intern("g")
				tv := t.Intern("t")
				bs := kernel.MakeExpression(t.BlankSequence(), nil)
				patT := kernel.MakeExpression(t.Pattern(), []value.Expression{tv, kernel.MakeExpression(t.Blank(), nil)})
				pat := kernel.MakeExpression(g, []value.Expression{bs, patT})
				subj := kernel.MakeExpression(g, []value.Expression{
					value.MachineInteger(1), value.MachineInteger(2), value.MachineInteger(3),
				})
				result, err := kernel.Match(pat, subj, t)
				if err != nil {
					return err
				}
				if !result.Success() {
					return fmt.Errorf("expected match success")
				}
				v, ok := result.Binding("t")
				if !ok || !v.Equal(value.MachineInteger(3)) {
					return fmt.Errorf("expected t -> 3, got %v", v)
				}
				return nil
			},
		},
	}
}

func report(name string, err error, color bool) bool {
	if err == nil {
		fmt.Println(status("PASS", color, true) + " " + name)
		return true
	}
	fmt.Println(status("FAIL", color, false) + " " + name + ": " + err.Error())
	return false
}

func status(label string, color, ok bool) string {
	if !color {
		return "[" + label + "]"
	}
	code := "31"
	if ok {
		code = "32"
	}
	return "\x1b[" + code + "m[" + label + "]\x1b[0m"
}
