package integrity

import (
	"fmt"
	"os"

	"fjacquet/txn-ledger/internal/accounts"
	"fjacquet/txn-ledger/internal/journal"
	"fjacquet/txn-ledger/internal/ledgererror"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// balanceEpsilon bounds the acceptable posting-sum deviation for the
// two-decimal fixed-point representation used in journal text.
var balanceEpsilon = decimal.RequireFromString("0.001")

// ValidateTree validates every entry of every journal file under the ledger
// root. Violations are accumulated and returned in full; validation never
// short-circuits on the first problem, so a single run surfaces everything.
func ValidateTree(root string) ([]*ledgererror.ValidationError, error) {
	files, err := journal.ListJournalFiles(root)
	if err != nil {
		return nil, err
	}

	var violations []*ledgererror.ValidationError
	for _, path := range files {
		entries, err := journal.ParseFile(path)
		if err != nil {
			// An unreadable file is itself a finding, not a reason to stop.
			violations = append(violations, &ledgererror.ValidationError{
				FilePath: path,
				Reason:   fmt.Sprintf("unreadable journal file: %v", err),
			})
			continue
		}
		for _, entry := range entries {
			violations = append(violations, validateEntry(entry)...)
		}
	}

	log.WithField("violations", len(violations)).Debug("Structural validation finished")
	return violations, nil
}

func validateEntry(entry journal.ParsedEntry) []*ledgererror.ValidationError {
	var out []*ledgererror.ValidationError

	report := func(reason string) {
		out = append(out, &ledgererror.ValidationError{
			FilePath: entry.File,
			Line:     entry.Line,
			Reason:   reason,
		})
	}

	for _, line := range entry.BadLines {
		report(fmt.Sprintf("malformed posting line: %q", line))
	}

	if entry.Date.IsZero() {
		report(fmt.Sprintf("missing or invalid entry date '%s'", entry.DateText))
	}
	if entry.Description == "" {
		report("entry has no description")
	}
	if len(entry.Postings) < 2 {
		report(fmt.Sprintf("entry has %d postings, need at least 2", len(entry.Postings)))
	}

	for _, p := range entry.Postings {
		if !accounts.ValidAccountPath.MatchString(p.Account) {
			report(fmt.Sprintf("invalid account path '%s'", p.Account))
		}
	}

	if len(entry.Postings) >= 2 {
		if sum := entry.PostingSum(); sum.Abs().GreaterThan(balanceEpsilon) {
			report(fmt.Sprintf("postings sum to %s, expected 0", sum.StringFixed(2)))
		}
	}

	return out
}

// Report is the serializable result of a full integrity run.
type Report struct {
	Duplicates []DuplicateGroup `yaml:"duplicates"`
	Violations []string         `yaml:"violations"`
}

// NewReport assembles a report from the two checks.
func NewReport(duplicates []DuplicateGroup, violations []*ledgererror.ValidationError) Report {
	r := Report{Duplicates: duplicates}
	for _, v := range violations {
		r.Violations = append(r.Violations, v.Error())
	}
	return r
}

// Clean reports whether the run found nothing to complain about.
func (r Report) Clean() bool {
	return len(r.Duplicates) == 0 && len(r.Violations) == 0
}

// WriteYAML writes the report to a file for downstream tooling.
func (r Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
