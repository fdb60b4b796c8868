package value

// MatchID identifies one top-level match attempt, scoping the transient
// bindings stamped onto symbols during that attempt. It is the pair
// (pattern, subject); two top-level calls to Match with the same pattern
// and subject objects share a MatchID, which is fine: a stale binding
// from an abandoned match on the exact same (pattern, subject) pair is
// indistinguishable from a fresh one, and the matcher always clears the
// slot on every exit path regardless.
type MatchID struct {
	pattern Expression
	subject Expression
}

// NewMatchID constructs the id for one top-level Match(pattern, subject, ...)
// call.
func NewMatchID(pattern, subject Expression) MatchID {
	return MatchID{pattern: pattern, subject: subject}
}

func (m MatchID) valid() bool { return m.pattern != nil || m.subject != nil }

type bindingSlot struct {
	id    MatchID
	value Expression
	bound bool
}

// Bind stamps this symbol's transient slot with value under id. It must
// only be called from within an active match context tagged with id.
func (s *Symbol) Bind(id MatchID, v Expression) {
	s.binding = bindingSlot{id: id, value: v, bound: true}
}

// Binding returns the value bound under id, or (nil, false) if the slot is
// empty or was stamped under a different (now-stale) id.
func (s *Symbol) Binding(id MatchID) (Expression, bool) {
	if !s.binding.bound || s.binding.id != id {
		return nil, false
	}
	return s.binding.value, true
}

// Unbind clears the transient slot unconditionally. Every exit path of a
// matching attempt, success, failure, or error, must call this for every
// symbol it bound, so no symbol's slot outlives its match.
func (s *Symbol) Unbind() {
	s.binding = bindingSlot{}
}
