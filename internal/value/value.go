// Package value implements the symbolic expression data model: the closed
// sum type of atoms and composite expressions that the matcher and
// evaluator operate on.
//
// The original (Piruzzolo/cmathics, see _examples/original_source) used
// virtual inheritance to mix a BaseExpression root with slice-parameterized
// leaf storage. Here that becomes a closed Go sum type: a Kind tag plus one
// struct per variant, dispatched with a type switch instead of a vtable.
package value

import (
	"math/big"
)

// Kind tags the variant of an Expression. Values 0-8 are the only bits that
// ever appear in a TypeMask; this mirrors types.h's CoreTypeBits split
// between "core type" (fits in a mask) and "extended type" (pattern-head
// symbols, which never appear in a composite's type mask).
type Kind uint8

const (
	KindSymbol Kind = iota
	KindMachineInteger
	KindBigInteger
	KindMachineReal
	KindBigReal
	KindRational
	KindComplex
	KindExpression
	KindString

	numCoreKinds = KindString + 1
)

func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "Symbol"
	case KindMachineInteger:
		return "MachineInteger"
	case KindBigInteger:
		return "BigInteger"
	case KindMachineReal:
		return "MachineReal"
	case KindBigReal:
		return "BigReal"
	case KindRational:
		return "Rational"
	case KindComplex:
		return "Complex"
	case KindExpression:
		return "Expression"
	case KindString:
		return "String"
	default:
		return "Unknown"
	}
}

// TypeMask is a 16-bit mask with one bit per core Kind. A composite
// expression's mask is the union of its leaves' masks, which lets
// pruning checks like "contains any symbols?" run in O(1).
type TypeMask uint16

// MaskOf returns the singleton mask for a single Kind.
func MaskOf(k Kind) TypeMask {
	return TypeMask(1) << uint(k)
}

// Has reports whether m contains every bit set in other.
func (m TypeMask) Has(other TypeMask) bool { return m&other == other }

// Overlaps reports whether m and other share any bit.
func (m TypeMask) Overlaps(other TypeMask) bool { return m&other != 0 }

// AnyMask matches every core kind; used as the type_mask argument to Apply
// when the caller wants every applicable leaf visited regardless of type.
const AnyMask TypeMask = (TypeMask(1) << numCoreKinds) - 1

// Expression is the sum type every value in the kernel satisfies. Equality
// and hashing are defined uniformly over it; FullForm gives the stable
// textual protocol.
type Expression interface {
	Kind() Kind
	TypeMask() TypeMask
	Equal(other Expression) bool
	Hash() uint64
}

// Atom is implemented by every non-composite Expression. It exists so
// generic code (the matcher, the evaluator) can tell atoms from composites
// without a type switch over all eight atom kinds.
type Atom interface {
	Expression
	isAtom()
}

// ---- atoms ----

// Symbol is identified by pointer identity, not by name comparison, so
// hot-path equality checks never touch the name string. Symbols are
// created and owned by the external definitions component; the core
// only reads Attributes/DownRules/SubRules/UpRules by identity and never
// constructs a Symbol itself.
type Symbol struct {
	name       string
	attributes Attributes
	downRules  []Rule
	subRules   []Rule
	upRules    []Rule

	binding bindingSlot
}

// NewSymbol is used only by the definitions component (internal/defs
// here) to mint a symbol with a stable identity. The core itself never
// calls this.
func NewSymbol(name string, attrs Attributes) *Symbol {
	return &Symbol{name: name, attributes: attrs}
}

func (s *Symbol) isAtom()           {}
func (s *Symbol) Kind() Kind        { return KindSymbol }
func (s *Symbol) TypeMask() TypeMask { return MaskOf(KindSymbol) }
func (s *Symbol) Name() string      { return s.name }
func (s *Symbol) Attributes() Attributes { return s.attributes }

// SetAttributes lets the definitions component change attributes after
// interning; the core never calls this. Enforces the "at most one Hold*
// bit" invariant.
func (s *Symbol) SetAttributes(a Attributes) error {
	if err := a.validate(); err != nil {
		return err
	}
	s.attributes = a
	return nil
}

func (s *Symbol) DownRules() []Rule { return s.downRules }
func (s *Symbol) SubRules() []Rule  { return s.subRules }
func (s *Symbol) UpRules() []Rule   { return s.upRules }

func (s *Symbol) AddDownRule(r Rule) { s.downRules = append(s.downRules, r) }
func (s *Symbol) AddSubRule(r Rule)  { s.subRules = append(s.subRules, r) }
func (s *Symbol) AddUpRule(r Rule)   { s.upRules = append(s.upRules, r) }

// Equal for symbols is identity: symbol equality implies value equality,
// and two distinct symbols with the same name are never equal (the
// definitions component is responsible for interning so that never
// happens in practice).
func (s *Symbol) Equal(other Expression) bool {
	o, ok := other.(*Symbol)
	return ok && o == s
}

func (s *Symbol) Hash() uint64 {
	return hashCombine(uint64(KindSymbol), hashString(s.name))
}

func (s *Symbol) String() string { return s.name }

// MachineInteger is a 64-bit signed integer atom.
type MachineInteger int64

func (MachineInteger) isAtom()            {}
func (MachineInteger) Kind() Kind         { return KindMachineInteger }
func (MachineInteger) TypeMask() TypeMask { return MaskOf(KindMachineInteger) }
func (v MachineInteger) Equal(other Expression) bool {
	o, ok := other.(MachineInteger)
	return ok && o == v
}
func (v MachineInteger) Hash() uint64 {
	return hashCombine(uint64(KindMachineInteger), uint64(v))
}

// BigInteger is an arbitrary-precision integer atom.
type BigInteger struct{ V *big.Int }

func (BigInteger) isAtom()            {}
func (BigInteger) Kind() Kind         { return KindBigInteger }
func (BigInteger) TypeMask() TypeMask { return MaskOf(KindBigInteger) }
func (v BigInteger) Equal(other Expression) bool {
	o, ok := other.(BigInteger)
	return ok && v.V.Cmp(o.V) == 0
}
func (v BigInteger) Hash() uint64 {
	return hashCombine(uint64(KindBigInteger), hashString(v.V.String()))
}

// MachineReal is a 64-bit float atom.
type MachineReal float64

func (MachineReal) isAtom()            {}
func (MachineReal) Kind() Kind         { return KindMachineReal }
func (MachineReal) TypeMask() TypeMask { return MaskOf(KindMachineReal) }
func (v MachineReal) Equal(other Expression) bool {
	o, ok := other.(MachineReal)
	return ok && o == v
}
func (v MachineReal) Hash() uint64 {
	return hashCombine(uint64(KindMachineReal), hashFloat(float64(v)))
}

// BigReal is an arbitrary-precision float atom, carrying its own precision
// (big.Float tracks precision internally).
type BigReal struct{ V *big.Float }

func (BigReal) isAtom()            {}
func (BigReal) Kind() Kind         { return KindBigReal }
func (BigReal) TypeMask() TypeMask { return MaskOf(KindBigReal) }
func (v BigReal) Equal(other Expression) bool {
	o, ok := other.(BigReal)
	return ok && v.V.Cmp(o.V) == 0 && v.V.Prec() == o.V.Prec()
}
func (v BigReal) Hash() uint64 {
	return hashCombine(uint64(KindBigReal), hashString(v.V.Text('g', -1)))
}

// Rational is numerator/denominator, both big integers, denominator > 0.
type Rational struct{ V *big.Rat }

func (Rational) isAtom()            {}
func (Rational) Kind() Kind         { return KindRational }
func (Rational) TypeMask() TypeMask { return MaskOf(KindRational) }
func (v Rational) Equal(other Expression) bool {
	o, ok := other.(Rational)
	return ok && v.V.Cmp(o.V) == 0
}
func (v Rational) Hash() uint64 {
	return hashCombine(uint64(KindRational), hashString(v.V.RatString()))
}

// Complex is a real/imaginary pair, each a real number expressed as an
// Expression (MachineReal, BigReal, MachineInteger, ... per the original's
// "each a real number").
type Complex struct {
	Re, Im Expression
}

func (Complex) isAtom()            {}
func (Complex) Kind() Kind         { return KindComplex }
func (Complex) TypeMask() TypeMask { return MaskOf(KindComplex) }
func (v Complex) Equal(other Expression) bool {
	o, ok := other.(Complex)
	return ok && v.Re.Equal(o.Re) && v.Im.Equal(o.Im)
}
func (v Complex) Hash() uint64 {
	return hashCombine(hashCombine(uint64(KindComplex), v.Re.Hash()), v.Im.Hash())
}

// String is an immutable string atom.
type String string

func (String) isAtom()            {}
func (String) Kind() Kind         { return KindString }
func (String) TypeMask() TypeMask { return MaskOf(KindString) }
func (v String) Equal(other Expression) bool {
	o, ok := other.(String)
	return ok && o == v
}
func (v String) Hash() uint64 {
	return hashCombine(uint64(KindString), hashString(string(v)))
}
