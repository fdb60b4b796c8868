package eval

import (
	"github.com/google/uuid"

	"symkernel/internal/value"
)

// UpValuePolicy picks the order in which up-values and down/sub-values
// are tried when both could fire for the same expression. See DESIGN.md
// for why UpBeforeDown is the default.
type UpValuePolicy int

const (
	// UpBeforeDown tries UpValues before SubValues/DownValues; the first
	// rule group to produce a change wins.
	UpBeforeDown UpValuePolicy = iota
	// DownBeforeUp tries SubValues/DownValues first, only falling back
	// to UpValues if neither fired.
	DownBeforeUp
	// UpValuesDisabled never tries UpValues. Useful for callers whose
	// definitions component does not populate up-rules at all, avoiding
	// the per-leaf head scan for nothing.
	UpValuesDisabled
)

// DefaultMaxIterations is the per-evaluation iteration ceiling an
// evaluation aborts at, so a caller always has a diagnostic bound on a
// run that never reaches a fixed point.
const DefaultMaxIterations = 100000

// Context is the evaluation-context passed around an Evaluate call: it
// satisfies value.Context so Symbol rule lists (value.Rule) can call
// back into it, and it carries the cooperative cancellation flag and a
// diagnostic session id shared by every Evaluate call made with it.
type Context struct {
	Defs value.Definitions

	// SessionID correlates diagnostics (iteration-limit / cancellation
	// errors) across logs. NewContext mints it once; every Evaluate call
	// that reuses this Context reports the same id.
	SessionID string

	// MaxIterations is the per-evaluation ceiling; zero means
	// DefaultMaxIterations.
	MaxIterations int

	// CancelFlag is the externally owned cancellation flag: the
	// evaluator polls it at each one-step loop top and at each
	// rule-dispatch boundary. A nil CancelFlag means never cancelled.
	CancelFlag func() bool

	UpValuePolicy UpValuePolicy
}

// NewContext builds a Context with a fresh diagnostic session id and the
// default iteration ceiling.
func NewContext(defs value.Definitions) *Context {
	return &Context{
		Defs:          defs,
		SessionID:     uuid.NewString(),
		MaxIterations: DefaultMaxIterations,
		UpValuePolicy: UpBeforeDown,
	}
}

func (c *Context) Definitions() value.Definitions { return c.Defs }

func (c *Context) Cancelled() bool {
	return c.CancelFlag != nil && c.CancelFlag()
}

func (c *Context) maxIterations() int {
	if c.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}
