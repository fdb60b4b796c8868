// Package kerr is the kernel's error-kind taxonomy: Cancelled,
// IterationLimit, ProgrammingInvariant and RuleError all surface as a
// *KernelError. A match failure is never one of these; it stays a plain
// (false, nil) result, never an error, since failure to match is a
// routine outcome, not an exceptional one.
//
// Styled after the teacher's internal/errors.SentraError: a typed Kind
// plus message plus the offending sub-expression, rendered in one
// Error() string.
package kerr

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/kr/text"
	"github.com/pkg/errors"
)

// Kind is one of the kernel's error origins.
type Kind string

const (
	Cancelled            Kind = "Cancelled"
	IterationLimit       Kind = "IterationLimit"
	ProgrammingInvariant Kind = "ProgrammingInvariant"
	RuleError            Kind = "RuleError"
)

// KernelError is the error type every core entry point returns. FullForm
// is the offending sub-expression already rendered to text by the caller
// (internal/value.FullForm); kerr does not depend on internal/value so
// that it can sit underneath both value and eval without a cycle.
type KernelError struct {
	Kind      Kind
	Message   string
	FullForm  string
	SessionID string
	Iteration int
	cause     error
}

func (e *KernelError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Iteration > 0 {
		msg += fmt.Sprintf(" (after %s iterations)", humanize.Comma(int64(e.Iteration)))
	}
	if e.SessionID != "" {
		msg += fmt.Sprintf(" [session %s]", e.SessionID)
	}
	if e.FullForm != "" {
		msg += "\n" + text.Indent("offending expression: "+e.FullForm, "  ")
	}
	return msg
}

// Unwrap exposes the wrapped cause (e.g. a user rule callback's error) so
// errors.Is/As from the standard library still work across the
// github.com/pkg/errors wrap.
func (e *KernelError) Unwrap() error { return e.cause }

// Cancel constructs the Cancelled kind.
func Cancel(sessionID string) *KernelError {
	return &KernelError{Kind: Cancelled, Message: "evaluation cancelled", SessionID: sessionID}
}

// LimitExceeded constructs the IterationLimit kind, including the last
// expression reached.
func LimitExceeded(sessionID, fullForm string, iterations int) *KernelError {
	return &KernelError{
		Kind:      IterationLimit,
		Message:   "per-evaluation iteration ceiling reached",
		FullForm:  fullForm,
		SessionID: sessionID,
		Iteration: iterations,
	}
}

// Invariant constructs a ProgrammingInvariant error: an abort, never a
// recoverable match failure.
func Invariant(message string) *KernelError {
	return &KernelError{Kind: ProgrammingInvariant, Message: message}
}

// WrapRule wraps a user rule callback's error, retaining the original
// behind a github.com/pkg/errors stack wrapper; errors.Is and errors.As
// reach it through Unwrap. KernelError has no Cause method, so
// github.com/pkg/errors.Cause stops at the KernelError itself.
func WrapRule(cause error, fullForm string) *KernelError {
	return &KernelError{
		Kind:     RuleError,
		Message:  "rule callback returned an error",
		FullForm: fullForm,
		cause:    errors.WithStack(cause),
	}
}
