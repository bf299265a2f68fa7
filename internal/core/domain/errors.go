package domain

import "errors"

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors.
// All of them are terminal for a single run - nothing is retried
// internally; resilience comes from heuristic breadth at discovery time.
var (
	// ErrInvalidStart indicates a brace scan was started on an index
	// that does not point at an opening brace.
	ErrInvalidStart = errors.New("not an opening brace")

	// ErrUnbalancedBraces indicates the source ended before the
	// opening brace was closed.
	ErrUnbalancedBraces = errors.New("unbalanced braces")

	// ErrModuleTableNotFound indicates no locate heuristic recovered
	// a module table from the bundle.
	ErrModuleTableNotFound = errors.New("module table not found")

	// ErrMalformedModuleTable indicates the extracted fragment does not
	// parse as a valid object literal.
	ErrMalformedModuleTable = errors.New("malformed module table")

	// ErrNoEligibleModules indicates the fragment parsed but contained
	// no numeric-keyed function properties.
	ErrNoEligibleModules = errors.New("no eligible modules")

	// ErrNoCandidatesFound indicates no module body matched any
	// configured signal pattern.
	ErrNoCandidatesFound = errors.New("no candidates found")

	// ErrInterpreterFailure indicates the sandboxed interpreter failed
	// or produced output that could not be decoded.
	ErrInterpreterFailure = errors.New("interpreter failure")

	// ErrInvalidSecretFormat indicates the sandbox result did not
	// decode into a non-empty list of versioned secrets.
	ErrInvalidSecretFormat = errors.New("invalid secret format")
)
