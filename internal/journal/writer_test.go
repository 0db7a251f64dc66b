package journal

import (
	"os"
	"strings"
	"testing"
	"time"

	"fjacquet/txn-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classified(date time.Time, description, amount, category string) models.ClassifiedTransaction {
	return models.ClassifiedTransaction{
		Transaction: models.Transaction{
			Date:        date,
			Description: description,
			Amount:      decimal.RequireFromString(amount),
		},
		Category:   category,
		Confidence: models.ConfidencePattern,
	}
}

func TestWriteEntryBalancedPostings(t *testing.T) {
	w := NewWriter(t.TempDir())
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	entry, err := w.WriteEntry(classified(date, "GITHUB INC", "-7.00", "expenses:software"), "assets:checking")
	require.NoError(t, err)

	require.Len(t, entry.Postings, 2)
	assert.Equal(t, "Expenses:Software", entry.Postings[0].Account)
	assert.True(t, entry.Postings[0].Amount.Equal(decimal.RequireFromString("7.00")))
	assert.Equal(t, "Assets:Checking", entry.Postings[1].Account)
	assert.True(t, entry.Postings[1].Amount.Equal(decimal.RequireFromString("-7.00")))
	assert.True(t, entry.IsBalanced())
}

func TestWriteEntryYearPartition(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	_, err := w.WriteEntry(classified(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), "OLD", "-1.00", "expenses:misc"), "assets:checking")
	require.NoError(t, err)
	_, err = w.WriteEntry(classified(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "NEW", "-2.00", "expenses:misc"), "assets:checking")
	require.NoError(t, err)

	assert.FileExists(t, w.FileForYear(2023))
	assert.FileExists(t, w.FileForYear(2024))
}

func TestWriteEntryAppendOnly(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	path := w.FileForYear(2024)

	var previous []byte
	for i := 0; i < 3; i++ {
		_, err := w.WriteEntry(classified(date, "COFFEE SHOP", "-4.50", "expenses:dining"), "assets:checking")
		require.NoError(t, err)

		current, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Greater(t, len(current), len(previous), "file must strictly grow")
		assert.True(t, strings.HasPrefix(string(current), string(previous)),
			"previously written bytes must be unchanged")
		previous = current
	}
}

func TestFormatEntry(t *testing.T) {
	entry := models.JournalEntry{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "GITHUB INC",
		Postings: []models.Posting{
			{Account: "Expenses:Software", Amount: decimal.RequireFromString("7.00")},
			{Account: "Assets:Checking", Amount: decimal.RequireFromString("-7.00")},
		},
	}

	text := FormatEntry(entry)
	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "2024-03-01 GITHUB INC", lines[0])
	assert.Contains(t, lines[1], "Expenses:Software")
	assert.Contains(t, lines[1], "7.00")
	assert.Contains(t, lines[2], "Assets:Checking")
	assert.Contains(t, lines[2], "-7.00")
	assert.Equal(t, "", lines[3], "entry block ends with a blank line")
}

func TestWriteEntryRoundTripThroughParser(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := w.WriteEntry(classified(date, "GITHUB INC", "-7.00", "expenses:software"), "assets:checking")
	require.NoError(t, err)

	entries, err := ParseFile(w.FileForYear(2024))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "GITHUB INC", entries[0].Description)
	assert.Equal(t, date, entries[0].Date)
	require.Len(t, entries[0].Postings, 2)
	assert.True(t, entries[0].PostingSum().IsZero())
}

func TestCorrectAppendsReversalAndCorrectedEntry(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := w.WriteEntry(classified(date, "STARBUCKS 123", "-4.50", "expenses:groceries"), "assets:checking")
	require.NoError(t, err)

	corrected, err := w.Correct("STARBUCKS 123", "expenses:dining", "assets:checking")
	require.NoError(t, err)
	assert.Equal(t, 1, corrected)

	entries, err := ParseFile(w.FileForYear(2024))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	original, reversal, replacement := entries[0], entries[1], entries[2]

	assert.Equal(t, "Expenses:Groceries", original.Postings[0].Account)

	assert.Equal(t, "STARBUCKS 123"+ReversalSuffix, reversal.Description)
	assert.True(t, reversal.Postings[0].Amount.Equal(original.Postings[0].Amount.Neg()))
	assert.True(t, reversal.PostingSum().IsZero())

	assert.Equal(t, "STARBUCKS 123", replacement.Description)
	assert.Equal(t, "Expenses:Dining", replacement.Postings[0].Account)
	assert.True(t, replacement.Postings[0].Amount.Equal(original.Postings[0].Amount))
	assert.True(t, replacement.PostingSum().IsZero())
}

func TestCorrectIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := w.WriteEntry(classified(date, "STARBUCKS 123", "-4.50", "expenses:groceries"), "assets:checking")
	require.NoError(t, err)

	_, err = w.Correct("STARBUCKS 123", "expenses:dining", "assets:checking")
	require.NoError(t, err)

	again, err := w.Correct("STARBUCKS 123", "expenses:dining", "assets:checking")
	require.NoError(t, err)
	assert.Equal(t, 0, again, "an already corrected entry must not be corrected twice")

	entries, err := ParseFile(w.FileForYear(2024))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestCorrectNeverRewritesHistory(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	path := w.FileForYear(2024)

	_, err := w.WriteEntry(classified(date, "STARBUCKS 123", "-4.50", "expenses:groceries"), "assets:checking")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = w.Correct("STARBUCKS 123", "expenses:dining", "assets:checking")
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(after), string(before)),
		"correction must only append, never rewrite")
}

func TestWriteEntryFlattensMultilineDescription(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	entry, err := w.WriteEntry(classified(date, "GITHUB INC\nEVIL LINE", "-7.00", "expenses:software"), "assets:checking")
	require.NoError(t, err)
	assert.Equal(t, "GITHUB INC EVIL LINE", entry.Description)

	entries, err := ParseFile(w.FileForYear(2024))
	require.NoError(t, err)
	require.Len(t, entries, 1, "the block must parse back as exactly one entry")
	assert.Equal(t, "GITHUB INC EVIL LINE", entries[0].Description)
	require.Len(t, entries[0].Postings, 2)
	assert.True(t, entries[0].PostingSum().IsZero())
	assert.Empty(t, entries[0].BadLines)

	// Correction still finds the transaction through the shared
	// description normalization.
	corrected, err := w.Correct("GITHUB INC\nEVIL LINE", "expenses:dining", "assets:checking")
	require.NoError(t, err)
	assert.Equal(t, 1, corrected)
}

func TestAppendRefusesMultilineDescription(t *testing.T) {
	w := NewWriter(t.TempDir())
	entry := models.JournalEntry{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "BAD\nHEADER",
		Postings: []models.Posting{
			{Account: "Expenses:Software", Amount: decimal.RequireFromString("7.00")},
			{Account: "Assets:Checking", Amount: decimal.RequireFromString("-7.00")},
		},
	}

	require.Error(t, w.append(entry))
	assert.NoFileExists(t, w.FileForYear(2024))
}

func TestCorrectMatchesCaseInsensitively(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := w.WriteEntry(classified(date, "Starbucks 123", "-4.50", "expenses:groceries"), "assets:checking")
	require.NoError(t, err)

	corrected, err := w.Correct("STARBUCKS   123", "expenses:dining", "assets:checking")
	require.NoError(t, err)
	assert.Equal(t, 1, corrected)
}
