package match_test

import (
	"testing"

	"symkernel/internal/defs"
	"symkernel/internal/match"
	"symkernel/internal/value"
)

func TestMatchBlankAcceptsAnything(t *testing.T) {
	t_ := defs.New()
	blank := value.NewExpression(t_.Blank(), nil)
	result, err := match.Match(blank, value.MachineInteger(42), t_)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success() {
		t.Fatalf("Blank[] should match any subject")
	}
	if len(result.Bindings()) != 0 {
		t.Fatalf("bare Blank[] should not capture anything, got %v", result.Bindings())
	}
}

func TestMatchPatternCapturesValue(t *testing.T) {
	d := defs.New()
	x := d.Intern("x")
	blank := value.NewExpression(d.Blank(), nil)
	pat := value.NewExpression(d.Pattern(), []value.Expression{x, blank})

	result, err := match.Match(pat, value.MachineInteger(42), d)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success() {
		t.Fatalf("Pattern[x, Blank[]] should match 42")
	}
	got, ok := result.Binding("x")
	if !ok || !got.Equal(value.MachineInteger(42)) {
		t.Fatalf("expected x -> 42, got %v (found=%v)", got, ok)
	}
}

func TestMatchRepeatedPatternVariableFailsOnInconsistency(t *testing.T) {
	d := defs.New()
	f := d.Intern("f")
	x := d.Intern("x")
	blank := value.NewExpression(d.Blank(), nil)
	patX := value.NewExpression(d.Pattern(), []value.Expression{x, blank})
	pat := value.NewExpression(f, []value.Expression{patX, patX})
	subj := value.NewExpression(f, []value.Expression{value.MachineInteger(1), value.MachineInteger(2)})

	result, err := match.Match(pat, subj, d)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success() {
		t.Fatalf("f[x_, x_] should not match f[1, 2]")
	}
}

func TestMatchRepeatedPatternVariableSucceedsOnConsistency(t *testing.T) {
	d := defs.New()
	f := d.Intern("f")
	x := d.Intern("x")
	blank := value.NewExpression(d.Blank(), nil)
	patX := value.NewExpression(d.Pattern(), []value.Expression{x, blank})
	pat := value.NewExpression(f, []value.Expression{patX, patX})
	subj := value.NewExpression(f, []value.Expression{value.MachineInteger(7), value.MachineInteger(7)})

	result, err := match.Match(pat, subj, d)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success() {
		t.Fatalf("f[x_, x_] should match f[7, 7]")
	}
	got, _ := result.Binding("x")
	if !got.Equal(value.MachineInteger(7)) {
		t.Fatalf("expected x -> 7, got %v", got)
	}
}

func TestMatchBlankNullSequenceMatchesEmpty(t *testing.T) {
	d := defs.New()
	g := d.Intern("g")
	bns := value.NewExpression(d.BlankNullSequence(), nil)
	pat := value.NewExpression(g, []value.Expression{bns})
	subj := value.NewExpression(g, nil)

	result, err := match.Match(pat, subj, d)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success() {
		t.Fatalf("g[BlankNullSequence[]] should match g[]")
	}
}

func TestMatchBlankSequenceRequiresAtLeastOne(t *testing.T) {
	d := defs.New()
	g := d.Intern("g")
	bs := value.NewExpression(d.BlankSequence(), nil)
	pat := value.NewExpression(g, []value.Expression{bs})
	subj := value.NewExpression(g, nil)

	result, err := match.Match(pat, subj, d)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success() {
		t.Fatalf("g[BlankSequence[]] should not match g[] (BlankSequence requires >=1)")
	}
}

func TestMatchBlankSequenceThenPatternCapturesLastElement(t *testing.T) {
	d := defs.New()
	g := d.Intern("g")
	tv := d.Intern("t")
	bs := value.NewExpression(d.BlankSequence(), nil)
	blank := value.NewExpression(d.Blank(), nil)
	patT := value.NewExpression(d.Pattern(), []value.Expression{tv, blank})
	pat := value.NewExpression(g, []value.Expression{bs, patT})
	subj := value.NewExpression(g, []value.Expression{
		value.MachineInteger(1), value.MachineInteger(2), value.MachineInteger(3),
	})

	result, err := match.Match(pat, subj, d)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success() {
		t.Fatalf("g[__, t_] should match g[1,2,3]")
	}
	got, ok := result.Binding("t")
	if !ok || !got.Equal(value.MachineInteger(3)) {
		t.Fatalf("expected t -> 3, got %v", got)
	}
}

func TestMatchAlternatives(t *testing.T) {
	d := defs.New()
	intHead := d.Intern("System`Integer")
	strHead := d.Intern("System`String")
	blankInt := value.NewExpression(d.Blank(), []value.Expression{intHead})
	blankStr := value.NewExpression(d.Blank(), []value.Expression{strHead})
	alt := value.NewExpression(d.Alternatives(), []value.Expression{blankInt, blankStr})

	if ok, err := matches(d, alt, value.MachineInteger(5)); err != nil || !ok {
		t.Fatalf("Alternatives[_Integer, _String] should match 5, ok=%v err=%v", ok, err)
	}
	if ok, err := matches(d, alt, value.String("hi")); err != nil || !ok {
		t.Fatalf("Alternatives[_Integer, _String] should match \"hi\", ok=%v err=%v", ok, err)
	}
	if ok, err := matches(d, alt, value.MachineReal(1.5)); err != nil || ok {
		t.Fatalf("Alternatives[_Integer, _String] should not match a Real, ok=%v err=%v", ok, err)
	}
}

func matches(d *defs.Table, pattern, subject value.Expression) (bool, error) {
	result, err := match.Match(pattern, subject, d)
	if err != nil {
		return false, err
	}
	return result.Success(), nil
}

// TestMatchTransientSlotsClearedOnFailure is the §8 resource-discipline
// invariant: a symbol touched by a failed match attempt must carry no
// binding once Match returns, under any MatchID.
func TestMatchTransientSlotsClearedOnFailure(t *testing.T) {
	d := defs.New()
	f := d.Intern("f")
	x := d.Intern("x")
	blank := value.NewExpression(d.Blank(), nil)
	patX := value.NewExpression(d.Pattern(), []value.Expression{x, blank})
	pat := value.NewExpression(f, []value.Expression{patX, patX})
	subj := value.NewExpression(f, []value.Expression{value.MachineInteger(1), value.MachineInteger(2)})

	result, err := match.Match(pat, subj, d)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success() {
		t.Fatalf("expected failure to set up the invariant check")
	}

	id := value.NewMatchID(pat, subj)
	if _, found := x.Binding(id); found {
		t.Fatalf("x still carries a binding after a failed match returned")
	}
}

// TestMatchTransientSlotsClearedOnSuccess: bindings surface only through
// the returned Result, never by reading the symbol's live slot afterward.
func TestMatchTransientSlotsClearedOnSuccess(t *testing.T) {
	d := defs.New()
	x := d.Intern("x")
	blank := value.NewExpression(d.Blank(), nil)
	pat := value.NewExpression(d.Pattern(), []value.Expression{x, blank})
	subj := value.Expression(value.MachineInteger(42))

	result, err := match.Match(pat, subj, d)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success() {
		t.Fatalf("expected success")
	}

	id := value.NewMatchID(pat, subj)
	if _, found := x.Binding(id); found {
		t.Fatalf("x still carries a live binding after a successful match returned; bindings must be read from Result only")
	}
}
