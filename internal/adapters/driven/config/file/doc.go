// Package file provides a TOML file-backed configuration store.
//
// Configuration lives in ~/.sp-src/config.toml by default. Nested
// tables are flattened to dot-notation keys, so
//
//	[probe]
//	signal_patterns = [".validUntil"]
//
// is read as "probe.signal_patterns". Known keys:
//
//   - fetch.entry_url: entry page scraped for the bundle URL
//   - fetch.user_agent: User-Agent header for both requests
//   - probe.signal_patterns: ordered signal list for candidate ranking
//   - sandbox.timeout_ms: harness execution deadline
//   - scan.min_fragment_size: brute-force locator acceptance threshold
package file
