// Package journal owns the plain-text, year-partitioned journal: formatting
// and appending balanced double-entry blocks, parsing them back, and the
// append-only correction path used by classification feedback.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/txn-ledger/internal/accounts"
	"fjacquet/txn-ledger/internal/dateutils"
	"fjacquet/txn-ledger/internal/fileutils"
	"fjacquet/txn-ledger/internal/ledgererror"
	"fjacquet/txn-ledger/internal/models"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// ReversalSuffix marks the balancing entry appended when a previously
// written entry is corrected. Entries are never edited in place.
const ReversalSuffix = " (reversal)"

// Writer appends journal entries under a ledger root, one file per calendar
// year. Appends are single-write: each call appends exactly one complete
// entry block or fails without touching the file.
type Writer struct {
	Root string
}

// NewWriter creates a Writer for the given ledger root directory.
func NewWriter(root string) *Writer {
	return &Writer{Root: root}
}

// FileForYear returns the journal file path for a calendar year.
func (w *Writer) FileForYear(year int) string {
	return filepath.Join(w.Root, fmt.Sprintf("%d%s", year, models.JournalFileExtension))
}

// WriteEntry converts a classified transaction into a balanced two-posting
// entry and appends it to the journal file for the transaction's year.
// Sign convention: the category account carries the negation of the raw
// amount, the default account carries the raw amount, so a -7.00 bank debit
// books +7.00 against the expense account.
func (w *Writer) WriteEntry(ct models.ClassifiedTransaction, defaultAccount string) (models.JournalEntry, error) {
	entry := models.JournalEntry{
		Date:        ct.Date,
		Description: sanitizeDescription(ct.Description),
		Postings: []models.Posting{
			{Account: accounts.NormalizePath(ct.Category), Amount: ct.Amount.Neg()},
			{Account: accounts.NormalizePath(defaultAccount), Amount: ct.Amount},
		},
	}
	if err := w.append(entry); err != nil {
		return models.JournalEntry{}, err
	}
	log.WithFields(logrus.Fields{
		"date":     dateutils.ToISODate(ct.Date),
		"category": ct.Category,
		"amount":   ct.Amount.StringFixed(2),
	}).Debug("Appended journal entry")
	return entry, nil
}

// sanitizeDescription flattens a description to a single line so the entry
// block stays one header plus postings. A quoted CSV field may legally
// contain newlines. Whitespace runs collapse to one space, matching the
// normalization used for override lookup.
func sanitizeDescription(description string) string {
	return strings.Join(strings.Fields(description), " ")
}

// FormatEntry renders one entry as a journal text block: a date/description
// header line, one indented line per posting, and a trailing blank line.
func FormatEntry(entry models.JournalEntry) string {
	var b strings.Builder
	b.WriteString(dateutils.ToISODate(entry.Date))
	b.WriteByte(' ')
	b.WriteString(entry.Description)
	b.WriteByte('\n')
	for _, p := range entry.Postings {
		b.WriteString(fmt.Sprintf("    %-42s  %12s\n", p.Account, p.Amount.StringFixed(2)))
	}
	b.WriteByte('\n')
	return b.String()
}

// append writes the whole entry block in one operation and syncs before
// returning, so a crash never leaves a partial entry behind.
func (w *Writer) append(entry models.JournalEntry) error {
	// The header must stay a single line or the block does not parse back
	// as one entry.
	if strings.ContainsAny(entry.Description, "\n\r") {
		return &ledgererror.FileIntegrityError{
			Path:   w.FileForYear(entry.Year()),
			Reason: fmt.Sprintf("refusing to append entry with multi-line description %q", entry.Description),
		}
	}
	if !entry.IsBalanced() {
		return &ledgererror.FileIntegrityError{
			Path:   w.FileForYear(entry.Year()),
			Reason: fmt.Sprintf("refusing to append unbalanced entry '%s' (sum %s)", entry.Description, entry.PostingSum()),
		}
	}

	if err := fileutils.EnsureDirectoryExists(w.Root); err != nil {
		return &ledgererror.FileIntegrityError{Path: w.Root, Reason: "failed to create ledger root", Err: err}
	}

	path := w.FileForYear(entry.Year())
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &ledgererror.FileIntegrityError{Path: path, Reason: "failed to open journal file", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close journal file")
		}
	}()

	if _, err := f.WriteString(FormatEntry(entry)); err != nil {
		return &ledgererror.FileIntegrityError{Path: path, Reason: "failed to append journal entry", Err: err}
	}
	if err := f.Sync(); err != nil {
		return &ledgererror.FileIntegrityError{Path: path, Reason: "failed to sync journal file", Err: err}
	}
	return nil
}

// Correct re-books every previously written entry matching the description
// onto a new category account. For each affected entry it appends a
// balancing reversal entry followed by a corrected entry; historical bytes
// are never rewritten. It returns the number of corrected entries.
func (w *Writer) Correct(description, category, defaultAccount string) (int, error) {
	target := models.NormalizeDescription(description)
	account := accounts.NormalizePath(category)

	files, err := ListJournalFiles(w.Root)
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, path := range files {
		entries, err := ParseFile(path)
		if err != nil {
			return corrected, err
		}
		for i, entry := range entries {
			if models.NormalizeDescription(entry.Description) != target {
				continue
			}
			if len(entry.Postings) != 2 || entry.Postings[0].Account == account {
				continue
			}
			if hasReversal(entries[i+1:], entry) {
				continue
			}

			reversal := models.JournalEntry{
				Date:        entry.Date,
				Description: entry.Description + ReversalSuffix,
				Postings: []models.Posting{
					{Account: entry.Postings[0].Account, Amount: entry.Postings[0].Amount.Neg()},
					{Account: entry.Postings[1].Account, Amount: entry.Postings[1].Amount.Neg()},
				},
			}
			replacement := models.JournalEntry{
				Date:        entry.Date,
				Description: entry.Description,
				Postings: []models.Posting{
					{Account: account, Amount: entry.Postings[0].Amount},
					{Account: accounts.NormalizePath(defaultAccount), Amount: entry.Postings[1].Amount},
				},
			}
			if err := w.append(reversal); err != nil {
				return corrected, err
			}
			if err := w.append(replacement); err != nil {
				return corrected, err
			}
			corrected++
			log.WithFields(logrus.Fields{
				"description": entry.Description,
				"account":     account,
				"file":        path,
			}).Info("Corrected journal entry")
		}
	}
	return corrected, nil
}

// hasReversal reports whether a later entry already reverses the given one,
// so repeated feedback does not stack duplicate corrections.
func hasReversal(later []ParsedEntry, entry ParsedEntry) bool {
	for _, candidate := range later {
		if candidate.Description != entry.Description+ReversalSuffix {
			continue
		}
		if len(candidate.Postings) != len(entry.Postings) {
			continue
		}
		match := true
		for i := range entry.Postings {
			if candidate.Postings[i].Account != entry.Postings[i].Account ||
				!candidate.Postings[i].Amount.Equal(entry.Postings[i].Amount.Neg()) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
