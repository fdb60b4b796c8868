package value

// Rule is a callable (expression, evaluation-context) -> optional
// expression. It lives in this package (rather than internal/eval, which
// would be the more natural home) so that Symbol can hold rule lists
// without an import cycle: the evaluator and rule-application packages
// both depend on value, never the reverse.
//
// Apply returns (result, true, nil) when the rule fired and produced a
// replacement; (nil, false, nil) when it declined to fire; and a
// non-nil error only for a genuine rule error, never to signal "no
// match".
type Rule interface {
	Apply(expr Expression, ctx Context) (result Expression, changed bool, err error)
}

// Context is the minimal evaluation-context surface a Rule needs: the
// definitions to resolve canonical pattern symbols against, and a
// cooperative cancellation check.
type Context interface {
	Definitions() Definitions
	Cancelled() bool
}

// Definitions is the external symbol table / definitions database. The
// core never creates a Symbol; it only reads identity, attributes and
// rule lists through this interface.
type Definitions interface {
	Intern(name string) *Symbol
	Lookup(name string) (*Symbol, bool)

	// Canonical symbol identities the matcher and evaluator compare
	// pattern/composite heads against by pointer equality, never by
	// name, matching the Piruzzolo/cmathics SymbolBlank/SymbolPattern/...
	// extended types this was distilled from.
	Sequence() *Symbol
	Blank() *Symbol
	BlankSequence() *Symbol
	BlankNullSequence() *Symbol
	Pattern() *Symbol
	Alternatives() *Symbol
	Repeated() *Symbol

	// HeadOf returns the head a Blank[h]-style pattern constraint is
	// compared against: e.Head() for a composite, and the owning type's
	// canonical symbol (e.g. Integer, String) for an atom. Atom type
	// symbols are part of the definitions component, not the core, so
	// this stays behind the Definitions boundary.
	HeadOf(e Expression) Expression
}
