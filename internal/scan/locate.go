package scan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frozenisback/sp-src/internal/core/domain"
	"github.com/frozenisback/sp-src/internal/logger"
)

// DefaultMinFragmentSize is the smallest fragment the brute-force
// fallback accepts. Minified module tables are far larger than this;
// the threshold mostly filters out small unrelated object literals.
const DefaultMinFragmentSize = 2000

// excerptLimit bounds the diagnostic excerpt attached to
// domain.ErrModuleTableNotFound.
const excerptLimit = 1000

// A signature marks where a module table literal is likely to start.
// Signatures are ordered most-specific first so the permissive ones
// only run when the generated shape of the bundle has drifted.
type signature struct {
	name string
	re   *regexp.Regexp
}

var signatures = []signature{
	{"webpack-modules-assignment", regexp.MustCompile(`__webpack_modules__\s*=\s*\{`)},
	{"var-object-assignment", regexp.MustCompile(`var\s+[A-Za-z0-9_$]+\s*=\s*\{`)},
	{"let-object-assignment", regexp.MustCompile(`let\s+[A-Za-z0-9_$]+\s*=\s*\{`)},
	{"bare-object-assignment", regexp.MustCompile(`[A-Za-z0-9_$]+\s*=\s*\{`)},
	{"bootstrap-wrapper", regexp.MustCompile(`/\*{6,}/\s*\(\(\)\s*=>\s*\{\s*var\s+[A-Za-z0-9_$]+\s*=\s*\(\{`)},
	{"numeric-key-function", regexp.MustCompile(`\{\s*\d+\s*:\s*function\b`)},
	{"wrapped-numeric-table", regexp.MustCompile(`=\s*\(\s*\{[0-9]+\s*:\s*function`)},
}

var numericKeyRe = regexp.MustCompile(`\d+\s*:`)

// Locator finds the module table fragment inside bundle source.
type Locator struct {
	// MinFragmentSize is the brute-force acceptance threshold.
	// Zero means DefaultMinFragmentSize.
	MinFragmentSize int
}

// LocateModuleTable locates the module table with default settings.
func LocateModuleTable(source string) (domain.Fragment, error) {
	return (&Locator{}).Locate(source)
}

// Locate scans the source for the module table object literal and
// returns its byte-exact fragment.
//
// Structural signatures are tried in order; for each match the first
// '{' at or after the match start is brace-matched, and the first
// signature that yields a balanced span wins. When every signature
// fails, a brute-force pass over every '{' accepts the first balanced
// span that is large enough and contains function-shaped content.
// Fails with domain.ErrModuleTableNotFound carrying a bounded source
// excerpt when no heuristic succeeds.
func (l *Locator) Locate(source string) (domain.Fragment, error) {
	for _, sig := range signatures {
		for _, loc := range sig.re.FindAllStringIndex(source, -1) {
			frag, ok := extractObjectAt(source, loc[0])
			if ok {
				logger.Debug("Module table located via %s at [%d:%d]", sig.name, frag.Span.Start, frag.Span.End)
				return frag, nil
			}
		}
	}

	if frag, ok := l.bruteForce(source); ok {
		logger.Debug("Module table located via brute force at [%d:%d]", frag.Span.Start, frag.Span.End)
		return frag, nil
	}

	excerpt := source
	if len(excerpt) > excerptLimit {
		excerpt = excerpt[:excerptLimit]
	}
	return domain.Fragment{}, fmt.Errorf("%w: tried %d signatures and brute force; source starts:\n%s",
		domain.ErrModuleTableNotFound, len(signatures), excerpt)
}

// bruteForce matches every opening brace in the source and accepts the
// first balanced span that looks like a module table: large enough and
// containing either a numeric-key-colon pattern or at least three
// function keywords.
func (l *Locator) bruteForce(source string) (domain.Fragment, bool) {
	minSize := l.MinFragmentSize
	if minSize <= 0 {
		minSize = DefaultMinFragmentSize
	}

	for i := 0; i < len(source); i++ {
		if source[i] != '{' {
			continue
		}
		frag, ok := extractObjectAt(source, i)
		if !ok {
			continue
		}
		if len(frag.Text) <= minSize || !strings.Contains(frag.Text, "function") {
			continue
		}
		if numericKeyRe.MatchString(frag.Text) || strings.Count(frag.Text, "function") >= 3 {
			return frag, true
		}
	}
	return domain.Fragment{}, false
}

// extractObjectAt brace-matches the first '{' at or after start and
// returns the covered fragment.
func extractObjectAt(source string, start int) (domain.Fragment, bool) {
	open := strings.IndexByte(source[start:], '{')
	if open < 0 {
		return domain.Fragment{}, false
	}
	open += start

	closing, err := MatchBrace(source, open)
	if err != nil {
		return domain.Fragment{}, false
	}

	span := domain.Span{Start: open, End: closing + 1}
	return domain.Fragment{Span: span, Text: source[span.Start:span.End]}, true
}
