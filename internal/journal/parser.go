package journal

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"fjacquet/txn-ledger/internal/dateutils"
	"fjacquet/txn-ledger/internal/fileutils"
	"fjacquet/txn-ledger/internal/ledgererror"
	"fjacquet/txn-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// ParsedEntry is a journal entry read back from disk, with enough position
// information for the integrity validator to report problems precisely.
type ParsedEntry struct {
	models.JournalEntry

	// DateText is the raw header date field; Date is zero when it did not
	// parse as an ISO date.
	DateText string
	File     string
	Line     int
	// BadLines collects indented lines that did not parse as postings.
	BadLines []string
}

var postingLine = regexp.MustCompile(`^\s+(.+?)\s{2,}(-?[0-9][0-9.]*)\s*$`)

// ListJournalFiles returns every journal file under the ledger root, sorted
// by path for deterministic processing. A missing root is an empty ledger,
// not an error.
func ListJournalFiles(root string) ([]string, error) {
	if !fileutils.DirectoryExists(root) {
		return nil, nil
	}
	files, err := fileutils.ListFilesWithExtension(root, models.JournalFileExtension)
	if err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: root, Reason: "failed to walk ledger root", Err: err}
	}
	sort.Strings(files)
	return files, nil
}

// ParseFile reads a journal file into entries. Parsing is lenient: malformed
// posting lines are recorded on the entry rather than aborting, so the
// integrity validator can surface every problem in one run.
func ParseFile(path string) ([]ParsedEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: path, Reason: "failed to open journal file", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close journal file")
		}
	}()

	var entries []ParsedEntry
	var current *ParsedEntry

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		if !indented {
			flush()
			current = parseHeader(line, path, lineNo)
			continue
		}

		if current == nil {
			// Indented line with no preceding header.
			entries = append(entries, ParsedEntry{
				File:     path,
				Line:     lineNo,
				BadLines: []string{line},
			})
			continue
		}

		m := postingLine.FindStringSubmatch(line)
		if m == nil {
			current.BadLines = append(current.BadLines, line)
			continue
		}
		amount, err := decimal.NewFromString(m[2])
		if err != nil {
			current.BadLines = append(current.BadLines, line)
			continue
		}
		current.Postings = append(current.Postings, models.Posting{
			Account: strings.TrimSpace(m[1]),
			Amount:  amount,
		})
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: path, Reason: "failed to read journal file", Err: err}
	}
	return entries, nil
}

// parseHeader splits "YYYY-MM-DD description" into date and description. A
// header whose first field is not an ISO date yields a zero Date; the
// validator reports it.
func parseHeader(line, path string, lineNo int) *ParsedEntry {
	entry := &ParsedEntry{File: path, Line: lineNo}

	fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
	entry.DateText = fields[0]
	if len(fields) == 2 {
		entry.Description = strings.TrimSpace(fields[1])
	}

	if date, err := time.Parse(dateutils.DateLayoutISO, entry.DateText); err == nil {
		entry.Date = date
	}
	return entry
}
