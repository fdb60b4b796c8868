package value

// Slice is the immutable, cheaply sub-sliceable leaf-storage abstraction
// of a composite expression. Several physical representations coexist;
// callers only ever see this interface.
//
// Unpack on a non-packed slice is always a no-op returning the receiver,
// since it is already a Refs-shaped (or inline, which Unpack also treats
// as already-materialized) view.
type Slice interface {
	Size() int
	At(i int) Expression
	Slice(begin, end int) Slice
	TypeMask() TypeMask
	IsPacked() bool
	Unpack() Slice
}

// maxInline is the largest leaf count the inline representation stores
// directly.
const maxInline = 3

// inlineSlice stores up to maxInline leaves directly in the struct, so
// building a small composite (the overwhelming common case for
// expressions like f[x], f[x,y], Pattern[x, Blank[]]) needs no separate
// backing-array allocation beyond the struct itself.
type inlineSlice struct {
	data [maxInline]Expression
	n    int
}

func newInlineSlice(leaves []Expression) inlineSlice {
	var s inlineSlice
	s.n = len(leaves)
	copy(s.data[:s.n], leaves)
	return s
}

func (s inlineSlice) Size() int { return s.n }

func (s inlineSlice) At(i int) Expression {
	if i < 0 || i >= s.n {
		panic("value: inline slice index out of range")
	}
	return s.data[i]
}

func (s inlineSlice) Slice(begin, end int) Slice {
	checkRange(begin, end, s.n)
	out := inlineSlice{n: end - begin}
	copy(out.data[:out.n], s.data[begin:end])
	return out
}

func (s inlineSlice) TypeMask() TypeMask {
	var m TypeMask
	for i := 0; i < s.n; i++ {
		m |= s.data[i].TypeMask()
	}
	return m
}

func (inlineSlice) IsPacked() bool { return false }
func (s inlineSlice) Unpack() Slice { return s }

// refsSlice is a shared reference array of child expressions. Go's slice
// header (pointer, len, cap) already gives cheap sub-slicing while the
// GC keeps the backing array alive as long as any sub-slice references
// it, so no manual refcounting is needed here.
type refsSlice struct {
	data []Expression
}

func (s refsSlice) Size() int { return len(s.data) }

func (s refsSlice) At(i int) Expression { return s.data[i] }

func (s refsSlice) Slice(begin, end int) Slice {
	checkRange(begin, end, len(s.data))
	return refsSlice{data: s.data[begin:end:end]}
}

func (s refsSlice) TypeMask() TypeMask {
	var m TypeMask
	for _, e := range s.data {
		m |= e.TypeMask()
	}
	return m
}

func (refsSlice) IsPacked() bool  { return false }
func (s refsSlice) Unpack() Slice { return s }

// packedKind identifies which primitive a packedSlice stores.
type packedKind uint8

const (
	packedInt packedKind = iota
	packedReal
	packedStr
)

// packedSlice is a contiguous vector of a primitive type, lifted to
// Expression lazily on demand; PrimitiveInts/PrimitiveReals/
// PrimitiveStrings are the typed escape hatch for callers that want to
// avoid that lift entirely. Concrete fields instead of a generic type
// let At() pick the element with a single switch on kind.
type packedSlice struct {
	kind  packedKind
	ints  []int64
	reals []float64
	strs  []string
}

func newPackedInts(v []int64) packedSlice   { return packedSlice{kind: packedInt, ints: v} }
func newPackedReals(v []float64) packedSlice { return packedSlice{kind: packedReal, reals: v} }
func newPackedStrings(v []string) packedSlice { return packedSlice{kind: packedStr, strs: v} }

func (s packedSlice) Size() int {
	switch s.kind {
	case packedInt:
		return len(s.ints)
	case packedReal:
		return len(s.reals)
	default:
		return len(s.strs)
	}
}

func (s packedSlice) At(i int) Expression {
	switch s.kind {
	case packedInt:
		return MachineInteger(s.ints[i])
	case packedReal:
		return MachineReal(s.reals[i])
	default:
		return String(s.strs[i])
	}
}

func (s packedSlice) Slice(begin, end int) Slice {
	switch s.kind {
	case packedInt:
		checkRange(begin, end, len(s.ints))
		return packedSlice{kind: packedInt, ints: s.ints[begin:end:end]}
	case packedReal:
		checkRange(begin, end, len(s.reals))
		return packedSlice{kind: packedReal, reals: s.reals[begin:end:end]}
	default:
		checkRange(begin, end, len(s.strs))
		return packedSlice{kind: packedStr, strs: s.strs[begin:end:end]}
	}
}

// TypeMask for a packed slice is the singleton of its element type, not
// a per-element union; that is the entire point of packing.
func (s packedSlice) TypeMask() TypeMask {
	switch s.kind {
	case packedInt:
		return MaskOf(KindMachineInteger)
	case packedReal:
		return MaskOf(KindMachineReal)
	default:
		return MaskOf(KindString)
	}
}

func (packedSlice) IsPacked() bool { return true }

// Unpack materializes a refsSlice with the same logical contents. This is
// the only Slice operation whose cost is proportional to size regardless
// of sharing, since it must box every primitive.
func (s packedSlice) Unpack() Slice {
	n := s.Size()
	out := make([]Expression, n)
	for i := 0; i < n; i++ {
		out[i] = s.At(i)
	}
	return refsSlice{data: out}
}

// PrimitiveInts returns the borrowed backing array of a packed-int slice.
// Calling this on a slice whose TypeMask is not the singleton int mask is
// a programming error, not a recoverable fault.
func PrimitiveInts(s Slice) []int64 {
	p, ok := s.(packedSlice)
	if !ok || p.kind != packedInt {
		panic("value: PrimitiveInts on a non-packed-int slice")
	}
	return p.ints
}

// PrimitiveReals is PrimitiveInts for the packed-real representation.
func PrimitiveReals(s Slice) []float64 {
	p, ok := s.(packedSlice)
	if !ok || p.kind != packedReal {
		panic("value: PrimitiveReals on a non-packed-real slice")
	}
	return p.reals
}

// PrimitiveStrings is PrimitiveInts for the packed-string representation.
func PrimitiveStrings(s Slice) []string {
	p, ok := s.(packedSlice)
	if !ok || p.kind != packedStr {
		panic("value: PrimitiveStrings on a non-packed-string slice")
	}
	return p.strs
}

func checkRange(begin, end, n int) {
	if begin < 0 || end > n || begin > end {
		panic("value: slice range out of bounds")
	}
}

// NewSlice picks the narrowest representation for leaves: size 0..3 ->
// inline, homogeneous machine-int/machine-real/string -> packed,
// otherwise -> refs.
func NewSlice(leaves []Expression) Slice {
	if len(leaves) <= maxInline {
		return newInlineSlice(leaves)
	}
	if k, ok := homogeneousKind(leaves); ok {
		switch k {
		case KindMachineInteger:
			ints := make([]int64, len(leaves))
			for i, e := range leaves {
				ints[i] = int64(e.(MachineInteger))
			}
			return newPackedInts(ints)
		case KindMachineReal:
			reals := make([]float64, len(leaves))
			for i, e := range leaves {
				reals[i] = float64(e.(MachineReal))
			}
			return newPackedReals(reals)
		case KindString:
			strs := make([]string, len(leaves))
			for i, e := range leaves {
				strs[i] = string(e.(String))
			}
			return newPackedStrings(strs)
		}
	}
	data := make([]Expression, len(leaves))
	copy(data, leaves)
	return refsSlice{data: data}
}

func homogeneousKind(leaves []Expression) (Kind, bool) {
	if len(leaves) == 0 {
		return 0, false
	}
	k := leaves[0].Kind()
	if k != KindMachineInteger && k != KindMachineReal && k != KindString {
		return 0, false
	}
	for _, e := range leaves[1:] {
		if e.Kind() != k {
			return 0, false
		}
	}
	return k, true
}

// Builder lets a by-generator constructor push leaves one at a time. The
// leaves are collected in a Go slice preallocated for the size hint and
// Build then picks the representation via NewSlice, so inline-sized
// results are copied out of that temporary slice; they are not filled in
// place.
type Builder struct {
	leaves []Expression
}

// NewBuilder preallocates for n leaves.
func NewBuilder(n int) *Builder {
	return &Builder{leaves: make([]Expression, 0, n)}
}

// Push appends one leaf.
func (b *Builder) Push(e Expression) { b.leaves = append(b.leaves, e) }

// Build finalizes the builder into a Slice, choosing the narrowest
// representation exactly as NewSlice does.
func (b *Builder) Build() Slice { return NewSlice(b.leaves) }
