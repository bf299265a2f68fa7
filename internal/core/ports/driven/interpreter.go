package driven

import (
	"context"
	"encoding/json"
)

// Interpreter evaluates untrusted JavaScript in isolation.
//
// This is a deliberately narrow "submit script text, receive structured
// result" boundary: the rest of the system never reasons about
// JavaScript semantics directly. Implementations must give the script
// no filesystem, network or host environment access, and must tear the
// execution environment down on every exit path.
type Interpreter interface {
	// Eval runs the script and returns its final value encoded as
	// JSON. The context deadline bounds execution time. Failures
	// wrap domain.ErrInterpreterFailure.
	Eval(ctx context.Context, script string) (json.RawMessage, error)
}
