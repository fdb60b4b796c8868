package eval

import (
	"sort"

	"symkernel/internal/value"
)

// canonicalize applies the canonicalization hints between leaf evaluation
// and rule application. Flat and Orderless get a real, idempotent
// implementation. OneIdentity and Listable are left as documented
// no-ops: their concrete semantics depend on the builtin attaching them,
// which this package has no knowledge of.
func canonicalize(e *value.Expr, attrs value.Attributes) (*value.Expr, bool) {
	cur := e
	changed := false

	if attrs.Has(value.Flat) {
		if spliced, ok := spliceFlat(cur); ok {
			cur = spliced
			changed = true
		}
	}
	if attrs.Has(value.Orderless) {
		if sorted, ok := sortOrderless(cur); ok {
			cur = sorted
			changed = true
		}
	}
	return cur, changed
}

// spliceFlat inlines leaves whose own head equals e's head, e.g. with
// Flat on Plus, Plus[1, Plus[2, 3]] becomes Plus[1, 2, 3].
func spliceFlat(e *value.Expr) (*value.Expr, bool) {
	head := e.Head()
	n := e.Leaves().Size()
	changed := false
	out := make([]value.Expression, 0, n)
	for i := 0; i < n; i++ {
		leaf := e.Leaves().At(i)
		if child, ok := leaf.(*value.Expr); ok && child.Head().Equal(head) {
			changed = true
			m := child.Leaves().Size()
			for j := 0; j < m; j++ {
				out = append(out, child.Leaves().At(j))
			}
			continue
		}
		out = append(out, leaf)
	}
	if !changed {
		return e, false
	}
	return value.NewExpression(head, out), true
}

// sortOrderless sorts leaves into a stable canonical order. The ordering
// itself only needs to be total and deterministic; sorting by Kind then
// by full-form text gives both, and running it twice is a no-op.
func sortOrderless(e *value.Expr) (*value.Expr, bool) {
	n := e.Leaves().Size()
	leaves := make([]value.Expression, n)
	for i := 0; i < n; i++ {
		leaves[i] = e.Leaves().At(i)
	}
	sorted := make([]value.Expression, n)
	copy(sorted, leaves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return canonicalLess(sorted[i], sorted[j])
	})
	changed := false
	for i := range leaves {
		if leaves[i] != sorted[i] {
			changed = true
			break
		}
	}
	if !changed {
		return e, false
	}
	return value.NewExpression(e.Head(), sorted), true
}

func canonicalLess(a, b value.Expression) bool {
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	return value.FullForm(a) < value.FullForm(b)
}
