// Package scan recovers the module table fragment from raw bundle text.
//
// It provides two layers: a lexical brace matcher that finds the
// closing brace matching an opener while skipping braces inside string
// literals and comments, and a locator that tries a cascade of
// structural signatures to find where the module table literal starts.
//
// The scan is deliberately not a JavaScript parse: the bundle is large
// and minified, and the locator only needs syntactically balanced
// boundaries, not semantics. The extracted fragment is byte-exact so a
// later full-grammar parse can report offsets back into the original
// source.
package scan
