package domain

// ModuleEntry is one numeric-keyed function property of the module table.
// BodyText is sliced from the original bundle source using parser-reported
// offsets, never re-serialized, so signal matching sees exact formatting.
type ModuleEntry struct {
	// Key is the bundler-assigned module identifier, unique within a table.
	Key int

	// BodySpan is the span of the function body in bundle coordinates.
	BodySpan Span

	// BodyText is the literal source text of the function body.
	BodyText string
}

// Candidate is a module entry whose body matched a signal pattern.
type Candidate struct {
	// Key is the module identifier to force-load.
	Key int

	// Priority is the index of the matched pattern in the configured
	// signal list. Candidates are ordered by Priority descending: a
	// pattern listed later ranks as a stronger match.
	Priority int
}

// DefaultSignalPatterns is the ordered list of textual signals used to
// rank module bodies when no list is configured. Matching is plain
// substring containment, not regular expressions.
var DefaultSignalPatterns = []string{
	"Hash#digest()",
	".validUntil",
	".secrets",
	`"abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+/="`,
}
