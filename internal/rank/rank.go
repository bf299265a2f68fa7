// Package rank orders module table entries by weak textual signals.
package rank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/frozenisback/sp-src/internal/core/domain"
	"github.com/frozenisback/sp-src/internal/logger"
)

// Rank scans each entry's body text for membership in the ordered
// signal pattern list and returns the matching entries, best first.
//
// Patterns are literal substrings, not regular expressions. An entry's
// priority is the index of the lowest-indexed pattern its body
// contains; entries matching no pattern are excluded. The result is
// sorted by priority DESCENDING: a pattern appearing later in the
// configured list ranks as a stronger match. That tie-break is
// deliberate, preserved behaviour - do not "fix" it. Entries of equal
// priority keep their discovery order.
//
// Fails with domain.ErrNoCandidatesFound when every entry is excluded.
func Rank(entries []domain.ModuleEntry, patterns []string) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	for _, entry := range entries {
		for i, pattern := range patterns {
			if strings.Contains(entry.BodyText, pattern) {
				logger.Debug("Module %d matched pattern %d (%q)", entry.Key, i, pattern)
				candidates = append(candidates, domain.Candidate{Key: entry.Key, Priority: i})
				break
			}
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %d entries, %d patterns", domain.ErrNoCandidatesFound,
			len(entries), len(patterns))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates, nil
}
