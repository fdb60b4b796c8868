package value

// Expr is a composite expression: a head plus a Slice of leaves. It is
// structurally immutable once constructed; every transform in this
// package returns a new Expr sharing unchanged substructure rather than
// mutating one in place.
type Expr struct {
	head   Expression
	leaves Slice
}

// NewExpression constructs head[leaves...]. It inspects the leaf vector
// and picks the narrowest slice variant via NewSlice.
func NewExpression(head Expression, leaves []Expression) *Expr {
	return &Expr{head: head, leaves: NewSlice(leaves)}
}

// NewExpressionSlice builds directly from an already-constructed Slice,
// e.g. one produced by Apply or by slicing an existing expression's
// leaves. This avoids re-deriving the slice representation when the
// caller already knows it is correct.
func NewExpressionSlice(head Expression, leaves Slice) *Expr {
	return &Expr{head: head, leaves: leaves}
}

// NewExpressionGen is a by-generator constructor: it hands the callback a
// Builder to push leaves into. The Builder collects leaves in a temporary
// slice of capacity n, so inline-sized results still allocate that slice
// before being copied into the inline representation.
func NewExpressionGen(head Expression, n int, fill func(*Builder)) *Expr {
	b := NewBuilder(n)
	fill(b)
	return &Expr{head: head, leaves: b.Build()}
}

func (e *Expr) Kind() Kind { return KindExpression }

func (e *Expr) Head() Expression { return e.head }
func (e *Expr) Leaves() Slice    { return e.leaves }

// TypeMask of a composite is the union of its leaves' masks.
func (e *Expr) TypeMask() TypeMask { return e.leaves.TypeMask() }

// Equal: two composite expressions are equal iff heads are equal and
// leaves are pairwise equal.
func (e *Expr) Equal(other Expression) bool {
	o, ok := other.(*Expr)
	if !ok {
		return false
	}
	if e == o {
		return true
	}
	if !e.head.Equal(o.head) {
		return false
	}
	n := e.leaves.Size()
	if n != o.leaves.Size() {
		return false
	}
	for i := 0; i < n; i++ {
		if !e.leaves.At(i).Equal(o.leaves.At(i)) {
			return false
		}
	}
	return true
}

func (e *Expr) Hash() uint64 {
	h := hashCombine(uint64(KindExpression), e.head.Hash())
	n := e.leaves.Size()
	for i := 0; i < n; i++ {
		h = hashCombine(h, e.leaves.At(i).Hash())
	}
	return h
}

// Unchanged is the sentinel Apply (and rule Apply) returns to mean "no
// replacement produced", distinct from returning the original expression,
// so callers can tell "nothing happened" from "happened to rewrite to
// something equal" without an Equal call on every leaf.
var Unchanged Expression = nil

// ApplyFunc is the per-leaf rewrite callback passed to Apply. Returning
// (nil, false) means "leave this leaf unchanged".
type ApplyFunc func(leaf Expression) (Expression, bool)

// Apply is the structural rewrite workhorse: it computes a new expression
// whose leaves in [begin,end) with a type mask overlapping mask are
// replaced by f(leaf); everything else is preserved. If f declines for
// every applicable leaf and head equals e.Head(), the result is
// Unchanged (nil), signalling the caller can keep using e itself.
// Otherwise every leaf that is not replaced, before or after the first
// changed one, is carried into a freshly built leaf vector by reference
// (the leaf values are shared, not deep-copied); the new Expr never
// reuses e's leaf storage itself.
func Apply(e *Expr, head Expression, begin, end int, f ApplyFunc, mask TypeMask) Expression {
	n := e.leaves.Size()
	if begin < 0 || end > n || begin > end {
		panic("value: Apply range out of bounds")
	}

	headChanged := !head.Equal(e.head)

	var out []Expression
	firstChanged := -1

	for i := begin; i < end; i++ {
		leaf := e.leaves.At(i)
		if !leaf.TypeMask().Overlaps(mask) {
			if out != nil {
				out = append(out, leaf)
			}
			continue
		}
		newLeaf, changed := f(leaf)
		if !changed {
			if out != nil {
				out = append(out, leaf)
			}
			continue
		}
		if out == nil {
			firstChanged = i
			out = make([]Expression, 0, n-begin)
			for j := begin; j < i; j++ {
				out = append(out, e.leaves.At(j))
			}
		}
		out = append(out, newLeaf)
	}

	if out == nil && !headChanged {
		// No leaf in [begin,end) changed and the head is the same: no-op.
		return Unchanged
	}
	if out == nil {
		// Head changed but no leaf did: still need a full leaf vector
		// for the new Expr, built by plain concatenation, since nothing
		// in the range changed and there is no split point to copy from.
		_ = firstChanged
		full := make([]Expression, 0, n)
		for i := 0; i < n; i++ {
			full = append(full, e.leaves.At(i))
		}
		return NewExpression(head, full)
	}

	// Reassemble: leaves before `begin`, the rewritten [begin,end)
	// (`out`), and leaves from `end` onward.
	full := make([]Expression, 0, n)
	for i := 0; i < begin; i++ {
		full = append(full, e.leaves.At(i))
	}
	full = append(full, out...)
	for i := end; i < n; i++ {
		full = append(full, e.leaves.At(i))
	}
	return NewExpression(head, full)
}
