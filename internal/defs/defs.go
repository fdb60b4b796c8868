// Package defs is a minimal stand-in for the symbol table / definitions
// database: it creates and interns symbols and stores their attributes
// and rule lists, while the core only ever reads rules by symbol
// identity. It exists so the core is runnable and testable standalone in
// this repository; a production deployment would swap it for a real
// definitions component behind the same value.Definitions interface.
package defs

import (
	"sync"

	"symkernel/internal/value"
)

// Table is a minimal in-memory symbol table: name -> *Symbol, plus the
// canonical pattern-construct symbols the matcher and evaluator compare
// heads against by identity.
type Table struct {
	mu      sync.Mutex
	symbols map[string]*value.Symbol

	sequence, blank, blankSeq, blankNullSeq *value.Symbol
	pattern, alternatives, repeated         *value.Symbol

	typeSymbols map[value.Kind]*value.Symbol
}

// New interns the canonical symbols and the atom-type symbols (Symbol,
// Integer, Real, Rational, Complex, String) that HeadOf resolves atoms
// to, then returns the ready-to-use Table.
func New() *Table {
	t := &Table{symbols: make(map[string]*value.Symbol)}

	t.sequence = t.Intern("System`Sequence")
	t.blank = t.Intern("System`Blank")
	t.blankSeq = t.Intern("System`BlankSequence")
	t.blankNullSeq = t.Intern("System`BlankNullSequence")
	t.pattern = t.Intern("System`Pattern")
	t.alternatives = t.Intern("System`Alternatives")
	t.repeated = t.Intern("System`Repeated")

	t.typeSymbols = map[value.Kind]*value.Symbol{
		value.KindSymbol:         t.Intern("System`Symbol"),
		value.KindMachineInteger: t.Intern("System`Integer"),
		value.KindBigInteger:     t.Intern("System`Integer"),
		value.KindMachineReal:    t.Intern("System`Real"),
		value.KindBigReal:        t.Intern("System`Real"),
		value.KindRational:       t.Intern("System`Rational"),
		value.KindComplex:        t.Intern("System`Complex"),
		value.KindString:         t.Intern("System`String"),
	}

	return t
}

func (t *Table) Intern(name string) *value.Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.symbols[name]; ok {
		return s
	}
	s := value.NewSymbol(name, 0)
	t.symbols[name] = s
	return s
}

func (t *Table) Lookup(name string) (*value.Symbol, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.symbols[name]
	return s, ok
}

func (t *Table) Sequence() *value.Symbol          { return t.sequence }
func (t *Table) Blank() *value.Symbol             { return t.blank }
func (t *Table) BlankSequence() *value.Symbol     { return t.blankSeq }
func (t *Table) BlankNullSequence() *value.Symbol { return t.blankNullSeq }
func (t *Table) Pattern() *value.Symbol           { return t.pattern }
func (t *Table) Alternatives() *value.Symbol      { return t.alternatives }
func (t *Table) Repeated() *value.Symbol          { return t.repeated }

// HeadOf returns e.Head() for a composite and the owning type's canonical
// symbol for an atom, per the Definitions.HeadOf contract in internal/value.
func (t *Table) HeadOf(e value.Expression) value.Expression {
	if ex, ok := e.(*value.Expr); ok {
		return ex.Head()
	}
	return t.typeSymbols[e.Kind()]
}

var _ value.Definitions = (*Table)(nil)
