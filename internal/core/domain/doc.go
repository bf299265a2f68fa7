// Package domain defines the core business entities for sp-src.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Span: A half-open index range into the bundle source
//   - Fragment: A byte-exact extracted slice of the bundle source
//   - ModuleEntry: A numeric-keyed function entry of the module table
//   - Candidate: A module entry matched against a signal pattern
//   - SecretRecord: A versioned secret captured at runtime
//   - ProbeRun: A recorded pipeline run with its captured secrets
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
