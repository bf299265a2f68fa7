package scan

import (
	"fmt"

	"github.com/frozenisback/sp-src/internal/core/domain"
)

// MatchBrace returns the index of the '}' matching the '{' at openIndex.
//
// The scan is a single left-to-right pass that skips braces occurring
// inside single-quote, double-quote and template literals (honouring
// backslash escapes) and inside both comment forms. Regex literals are
// NOT tracked: a '/' outside string and comment state is treated as an
// ordinary character. A regex literal containing an unescaped brace
// could therefore desynchronise depth tracking; this is a known
// residual risk accepted to keep the scan a full-parse-free O(n) pass.
//
// Fails with domain.ErrInvalidStart when source[openIndex] is not '{',
// and with domain.ErrUnbalancedBraces when the source ends before the
// brace is closed.
func MatchBrace(source string, openIndex int) (int, error) {
	n := len(source)
	if openIndex < 0 || openIndex >= n || source[openIndex] != '{' {
		return 0, fmt.Errorf("%w: index %d", domain.ErrInvalidStart, openIndex)
	}

	var (
		depth      int
		inSingle   bool
		inDouble   bool
		inBacktick bool
		escape     bool
	)

	i := openIndex
	for i < n {
		ch := source[i]

		// A backslash inside a string state suppresses interpretation
		// of the next character.
		if escape {
			escape = false
			i++
			continue
		}

		if inSingle {
			switch ch {
			case '\\':
				escape = true
			case '\'':
				inSingle = false
			}
			i++
			continue
		}
		if inDouble {
			switch ch {
			case '\\':
				escape = true
			case '"':
				inDouble = false
			}
			i++
			continue
		}
		if inBacktick {
			switch ch {
			case '\\':
				escape = true
			case '`':
				inBacktick = false
			}
			i++
			continue
		}

		if ch == '/' && i+1 < n {
			switch source[i+1] {
			case '/':
				// Line comment: consume to the next line terminator.
				i += 2
				for i < n && source[i] != '\n' && source[i] != '\r' {
					i++
				}
				continue
			case '*':
				// Block comment: consume to the matching */.
				i += 2
				for i+1 < n && !(source[i] == '*' && source[i+1] == '/') {
					i++
				}
				i += 2
				continue
			}
		}

		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		case '\'':
			inSingle = true
		case '"':
			inDouble = true
		case '`':
			inBacktick = true
		}
		i++
	}

	return 0, fmt.Errorf("%w: opened at index %d", domain.ErrUnbalancedBraces, openIndex)
}
