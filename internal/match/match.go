// Package match implements the pattern matcher: sequence-matching
// wildcards with backtracking, head-constrained blanks, and named capture
// stored transiently on the bound symbol itself.
//
// The matcher holds (context, this_pattern, next_pattern, sequence) and
// descends recursively, trying consumption sizes from k_max down to
// k_min, with Go slices standing in for the backing leaf storage.
package match

import "symkernel/internal/value"

// Binding is one (symbol, captured value) pair surfaced to a caller after
// a successful match. The symbol's own transient slot is cleared by the
// time Result is returned.
type Binding struct {
	Symbol *value.Symbol
	Value  value.Expression
}

// Result reports whether a match succeeded plus any named bindings it
// captured.
type Result struct {
	success  bool
	bindings []Binding
}

func (r *Result) Success() bool { return r.success }

// Binding looks up a captured value by variable name, a convenience for
// external callers; internally bindings are always resolved by symbol
// identity, never by string comparison.
func (r *Result) Binding(name string) (value.Expression, bool) {
	for _, b := range r.bindings {
		if b.Symbol.Name() == name {
			return b.Value, true
		}
	}
	return nil, false
}

// Bindings returns every captured (symbol, value) pair, in first-bound
// order.
func (r *Result) Bindings() []Binding { return r.bindings }

// context carries the state one top-level Match call threads through its
// recursion: the definitions (for canonical symbol identities), the match
// id bindings are stamped with, and the list of symbols this attempt has
// actually bound (for scoped rollback).
type context struct {
	defs  value.Definitions
	id    value.MatchID
	bound []*value.Symbol
}

func (c *context) mark() int { return len(c.bound) }

func (c *context) rollback(mark int) {
	for i := len(c.bound) - 1; i >= mark; i-- {
		c.bound[i].Unbind()
	}
	c.bound = c.bound[:mark]
}

func (c *context) bind(sym *value.Symbol, v value.Expression) {
	sym.Bind(c.id, v)
	c.bound = append(c.bound, sym)
}

// cleanup clears every transient slot this attempt touched, on every
// exit path, success or failure, since Match always calls it before
// returning.
func (c *context) cleanup() {
	for _, s := range c.bound {
		s.Unbind()
	}
}

// Match runs pattern against subject and returns the Result. A mismatch
// is reported as Result.Success() == false, never as an error. The
// returned error is always nil: a malformed pattern (e.g. Pattern[x, p]
// whose x is not a Symbol) is also reported as a plain mismatch, not as
// a programming-invariant error. Every bound slot is cleared before
// Match returns.
func Match(pattern, subject value.Expression, defs value.Definitions) (*Result, error) {
	id := value.NewMatchID(pattern, subject)
	ctx := &context{defs: defs, id: id}

	ok := matchSeq([]value.Expression{pattern}, []value.Expression{subject}, ctx)

	var bindings []Binding
	seen := map[*value.Symbol]bool{}
	if ok {
		for _, s := range ctx.bound {
			if seen[s] {
				continue
			}
			seen[s] = true
			if v, found := s.Binding(id); found {
				bindings = append(bindings, Binding{Symbol: s, Value: v})
			}
		}
	}
	ctx.cleanup()

	return &Result{success: ok, bindings: bindings}, nil
}

// matchSeq matches patterns against subject as parallel sequences: the
// first pattern's feasible consumption range is bounded by how much the
// rest of the sequence needs to stay satisfiable, and candidate
// consumption sizes are tried from largest to smallest.
func matchSeq(patterns []value.Expression, subject []value.Expression, ctx *context) bool {
	if len(patterns) == 0 {
		return len(subject) == 0
	}

	p := patterns[0]
	rest := patterns[1:]

	a := ArityOf(p, ctx.defs)
	minRest, maxRest := sumArity(rest, ctx.defs)
	avail := len(subject)

	kMax := a.Max
	if room := avail - minRest; room < kMax {
		kMax = room
	}
	if kMax > avail {
		kMax = avail
	}

	kMin := a.Min
	if floor := avail - maxRest; floor > kMin {
		kMin = floor
	}
	if kMin < a.Min {
		kMin = a.Min
	}
	if kMin < 0 {
		kMin = 0
	}

	kMax = restrictByHeadConstraint(p, subject, kMax, ctx.defs)

	if kMax < kMin {
		return false
	}

	for k := kMax; k >= kMin; k-- {
		mark := ctx.mark()
		items := subject[:k]
		if tryConsume(p, items, ctx) && matchSeq(rest, subject[k:], ctx) {
			return true
		}
		ctx.rollback(mark)
	}
	return false
}

// tryConsume attempts to match a single (possibly sequence-valued)
// pattern against exactly len(items) subject elements. It returns false,
// not an error, on mismatch.
func tryConsume(p value.Expression, items []value.Expression, ctx *context) bool {
	e, ok := p.(*value.Expr)
	if !ok {
		// Literal atom: matches itself structurally.
		if len(items) != 1 {
			return false
		}
		return p.Equal(items[0])
	}

	defs := ctx.defs
	head := e.Head()

	switch {
	case sameSymbol(head, defs.Blank()):
		if len(items) != 1 {
			return false
		}
		return checkHeadConstraint(e, items[0], defs)

	case sameSymbol(head, defs.BlankSequence()), sameSymbol(head, defs.BlankNullSequence()):
		for _, it := range items {
			if !checkHeadConstraint(e, it, defs) {
				return false
			}
		}
		return true

	case sameSymbol(head, defs.Pattern()):
		if e.Leaves().Size() != 2 {
			return false
		}
		sym, ok := e.Leaves().At(0).(*value.Symbol)
		if !ok {
			// Pattern[x, p] with a non-Symbol x is treated as a
			// mismatch; no error is raised for it.
			return false
		}
		inner := e.Leaves().At(1)
		if !tryConsume(inner, items, ctx) {
			return false
		}
		captured := captureValue(items, defs)
		if existing, found := sym.Binding(ctx.id); found {
			return existing.Equal(captured)
		}
		ctx.bind(sym, captured)
		return true

	case sameSymbol(head, defs.Alternatives()):
		n := e.Leaves().Size()
		for i := 0; i < n; i++ {
			alt := e.Leaves().At(i)
			a := ArityOf(alt, defs)
			if len(items) < a.Min || len(items) > a.Max {
				continue
			}
			mark := ctx.mark()
			if tryConsume(alt, items, ctx) {
				return true
			}
			ctx.rollback(mark)
		}
		return false

	case sameSymbol(head, defs.Repeated()):
		if e.Leaves().Size() < 1 || len(items) < 1 {
			return false
		}
		inner := e.Leaves().At(0)
		// Simplification: each repetition unit is required to consume
		// exactly one subject element (covers Repeated[Blank[]] and
		// Repeated[Pattern[x, Blank[h]]], the common uses); a
		// sequence-valued repetition unit is out of scope here.
		for _, it := range items {
			if !tryConsume(inner, []value.Expression{it}, ctx) {
				return false
			}
		}
		return true

	default:
		// General composite pattern vs. composite subject: descend
		// head-first, then match leaves as a fresh sequence.
		if len(items) != 1 {
			return false
		}
		subj, ok := items[0].(*value.Expr)
		if !ok {
			return false
		}
		if !tryConsume(head, []value.Expression{subj.Head()}, ctx) {
			return false
		}
		return matchSeq(sliceToExprs(e.Leaves()), sliceToExprs(subj.Leaves()), ctx)
	}
}

// checkHeadConstraint implements blank_head from the original: Blank[h]/
// BlankSequence[h]/BlankNullSequence[h] only match items whose head is h,
// by identity. No constraint argument means any head is accepted.
func checkHeadConstraint(blank *value.Expr, item value.Expression, defs value.Definitions) bool {
	if blank.Leaves().Size() == 0 {
		return true
	}
	constraint, ok := blank.Leaves().At(0).(*value.Symbol)
	if !ok {
		return false
	}
	h := defs.HeadOf(item)
	return sameSymbol(h, constraint)
}

// restrictByHeadConstraint clamps the feasible consumption of a sequence
// blank (bare, or wrapped in Pattern) to the longest prefix whose every
// element satisfies its head constraint, if it has one.
func restrictByHeadConstraint(p value.Expression, subject []value.Expression, kMax int, defs value.Definitions) int {
	e, ok := p.(*value.Expr)
	if !ok {
		return kMax
	}
	head := e.Head()

	var blank *value.Expr
	switch {
	case sameSymbol(head, defs.BlankSequence()), sameSymbol(head, defs.BlankNullSequence()):
		blank = e
	case sameSymbol(head, defs.Pattern()) && e.Leaves().Size() == 2:
		if inner, ok := e.Leaves().At(1).(*value.Expr); ok {
			ih := inner.Head()
			if sameSymbol(ih, defs.BlankSequence()) || sameSymbol(ih, defs.BlankNullSequence()) {
				blank = inner
			}
		}
	}
	if blank == nil || blank.Leaves().Size() == 0 {
		return kMax
	}
	constraint, ok := blank.Leaves().At(0).(*value.Symbol)
	if !ok {
		return kMax
	}

	n := 0
	for n < kMax && n < len(subject) {
		if !sameSymbol(defs.HeadOf(subject[n]), constraint) {
			break
		}
		n++
	}
	return n
}

// captureValue is what a Pattern[x, q] binds x to: the single consumed
// element when exactly one was consumed, or a Sequence[...] of the
// consumed span otherwise.
func captureValue(items []value.Expression, defs value.Definitions) value.Expression {
	if len(items) == 1 {
		return items[0]
	}
	return value.NewExpression(defs.Sequence(), items)
}

func sliceToExprs(s value.Slice) []value.Expression {
	n := s.Size()
	out := make([]value.Expression, n)
	for i := 0; i < n; i++ {
		out[i] = s.At(i)
	}
	return out
}
