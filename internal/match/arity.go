package match

import "symkernel/internal/value"

// Infinite stands in for the arity contract's "∞" (MATCH_MAX in the
// original's match_sizes_t). Using a large finite sentinel instead of
// a genuine infinity keeps arithmetic in sumArity simple and overflow-free
// for any subject sequence this kernel will ever see.
const Infinite = 1 << 30

// Arity is the (min, max) arity contract every pattern reports. It is
// derived from the pattern's head, never recomputed by walking the whole
// pattern tree each call.
type Arity struct {
	Min, Max int
}

// ArityOf derives a pattern's arity contract: plain literals ⇒ (1,1);
// BlankSequence ⇒ (1,∞); BlankNullSequence ⇒ (0,∞); Alternatives ⇒
// componentwise (min of mins, max of maxes); Repeated ⇒ (1,∞); Pattern
// forwards to its inner pattern.
func ArityOf(p value.Expression, defs value.Definitions) Arity {
	e, ok := p.(*value.Expr)
	if !ok {
		return Arity{1, 1}
	}
	head := e.Head()
	switch {
	case sameSymbol(head, defs.BlankSequence()):
		return Arity{1, Infinite}
	case sameSymbol(head, defs.BlankNullSequence()):
		return Arity{0, Infinite}
	case sameSymbol(head, defs.Repeated()):
		return Arity{1, Infinite}
	case sameSymbol(head, defs.Pattern()):
		if e.Leaves().Size() == 2 {
			return ArityOf(e.Leaves().At(1), defs)
		}
		return Arity{1, 1}
	case sameSymbol(head, defs.Alternatives()):
		n := e.Leaves().Size()
		if n == 0 {
			return Arity{1, 1}
		}
		first := ArityOf(e.Leaves().At(0), defs)
		minP, maxP := first.Min, first.Max
		for i := 1; i < n; i++ {
			a := ArityOf(e.Leaves().At(i), defs)
			if a.Max > maxP {
				maxP = a.Max
			}
			if a.Min < minP {
				minP = a.Min
			}
		}
		return Arity{minP, maxP}
	default:
		return Arity{1, 1}
	}
}

// sumArity folds the combined min/max arity of a sibling pattern list,
// used to bound how much of the subject sequence the current pattern may
// feasibly consume.
func sumArity(patterns []value.Expression, defs value.Definitions) (min, max int) {
	for _, p := range patterns {
		a := ArityOf(p, defs)
		min += a.Min
		if max >= Infinite || a.Max >= Infinite {
			max = Infinite
		} else {
			max += a.Max
		}
	}
	return min, max
}

func sameSymbol(e value.Expression, s *value.Symbol) bool {
	sym, ok := e.(*value.Symbol)
	return ok && s != nil && sym == s
}
