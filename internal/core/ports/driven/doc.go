// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Interpreter: Isolated JavaScript execution
//   - MarkerStore: Last-seen bundle identity persistence
//
// # Optional Interfaces
//
// These can be nil - the service degrades gracefully:
//
//   - BundleSource: Remote bundle fetching. Without it, only local
//     bundle files can be probed.
//   - RunStore: Run history persistence. Without it, history is disabled.
//   - ConfigStore: Application configuration. Without it, compiled-in
//     defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
