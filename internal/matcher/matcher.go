// Package matcher evaluates pattern rules against transaction descriptions.
// Rules are checked in document order and the first match wins; order is the
// only priority mechanism, so more specific patterns must come before more
// general ones. Matching is pure and safe for concurrent readers.
package matcher

import (
	"fjacquet/txn-ledger/internal/rules"
)

// Match returns the category of the first pattern whose regex matches
// anywhere in the description. The boolean result is false when no pattern
// matches. Patterns must have been compiled by the rule store.
func Match(description string, patterns []rules.PatternRule) (string, bool) {
	for i := range patterns {
		re := patterns[i].Regexp()
		if re == nil {
			continue
		}
		if re.MatchString(description) {
			return patterns[i].Category, true
		}
	}
	return "", false
}
