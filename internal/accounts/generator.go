// Package accounts derives chart-of-accounts open directives from the
// categories of a rule document, and owns the account-path normalization
// shared with the journal writer and the integrity validator.
package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"fjacquet/txn-ledger/internal/fileutils"
	"fjacquet/txn-ledger/internal/rules"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var (
	invalidChars = regexp.MustCompile(`[^A-Za-z0-9-]`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
	// ValidAccountPath matches a normalized colon-delimited account path.
	ValidAccountPath = regexp.MustCompile(`^[A-Za-z0-9-]+(:[A-Za-z0-9-]+)*$`)
)

// NormalizePath converts a category string into a ledger account path:
// segments split on ':', whitespace and underscores replaced by hyphens,
// characters outside [A-Za-z0-9-] stripped, each word title-cased.
func NormalizePath(category string) string {
	segments := strings.Split(category, ":")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		segment = strings.NewReplacer(" ", "-", "_", "-").Replace(segment)
		segment = invalidChars.ReplaceAllString(segment, "")
		segment = strings.Trim(hyphenRuns.ReplaceAllString(segment, "-"), "-")
		segment = titleCase(segment)
		if segment != "" {
			out = append(out, segment)
		}
	}
	return strings.Join(out, ":")
}

// titleCase capitalizes the first letter of every hyphen-separated word.
func titleCase(segment string) string {
	words := strings.Split(segment, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, "-")
}

// Generate returns one "open <account>" directive per distinct normalized
// category, lexicographically sorted. Re-running on an unchanged rule set
// produces byte-identical output.
func Generate(doc *rules.Document) []string {
	seen := make(map[string]bool, len(doc.Categories))
	directives := make([]string, 0, len(doc.Categories))
	for _, category := range doc.Categories {
		account := NormalizePath(category)
		if account == "" || seen[account] {
			continue
		}
		seen[account] = true
		directives = append(directives, "open "+account)
	}
	sort.Strings(directives)
	return directives
}

// WriteFile regenerates the account directive file wholesale.
func WriteFile(doc *rules.Document, path string) error {
	directives := Generate(doc)
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create accounts directory: %w", err)
	}

	var b strings.Builder
	for _, d := range directives {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write accounts file: %w", err)
	}

	log.WithFields(logrus.Fields{
		"path":     path,
		"accounts": len(directives),
	}).Info("Regenerated account directives")
	return nil
}
