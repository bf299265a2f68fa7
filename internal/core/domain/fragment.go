package domain

// Span is a half-open [Start, End) index range into the bundle source.
type Span struct {
	// Start is the inclusive offset of the first character.
	Start int

	// End is the exclusive offset one past the last character.
	End int
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Valid reports whether the span is well-formed within a source of
// the given length.
func (s Span) Valid(sourceLen int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= sourceLen
}

// Fragment is a byte-exact slice of the original bundle source.
//
// Text must always equal source[Span.Start:Span.End] exactly - no
// trimming, no normalisation. Downstream re-assembly depends on exact
// recovery including whitespace and comments.
type Fragment struct {
	Span Span
	Text string
}
