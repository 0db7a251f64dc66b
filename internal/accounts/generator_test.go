package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/txn-ledger/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		category string
		expected string
	}{
		{
			name:     "simple hierarchy",
			category: "expenses:software:subscriptions",
			expected: "Expenses:Software:Subscriptions",
		},
		{
			name:     "whitespace becomes hyphen",
			category: "expenses:eating out",
			expected: "Expenses:Eating-Out",
		},
		{
			name:     "underscores become hyphens",
			category: "expenses:credit_card_fees",
			expected: "Expenses:Credit-Card-Fees",
		},
		{
			name:     "invalid characters stripped",
			category: "expenses:café & bar!",
			expected: "Expenses:Caf-Bar",
		},
		{
			name:     "already normalized",
			category: "Assets:Checking",
			expected: "Assets:Checking",
		},
		{
			name:     "empty segment dropped",
			category: "expenses::misc",
			expected: "Expenses:Misc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.category))
		})
	}
}

func TestGenerateSortedAndDeduplicated(t *testing.T) {
	doc := &rules.Document{
		Categories: []string{
			"expenses:software",
			"assets:checking",
			"Expenses:Software", // normalizes to a duplicate
			"income:salary",
		},
	}

	directives := Generate(doc)
	assert.Equal(t, []string{
		"open Assets:Checking",
		"open Expenses:Software",
		"open Income:Salary",
	}, directives)
}

func TestGenerateIsIdempotent(t *testing.T) {
	doc := &rules.Document{
		Categories: []string{"expenses:software", "assets:checking", "income:salary"},
	}

	first := Generate(doc)
	second := Generate(doc)
	assert.Equal(t, first, second)
}

func TestWriteFileRegeneratesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.ledger")

	doc := &rules.Document{Categories: []string{"expenses:software", "assets:checking"}}
	require.NoError(t, WriteFile(doc, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "open Assets:Checking\nopen Expenses:Software\n", string(content))

	// Shrinking the rule set shrinks the file: it is rewritten, not appended.
	doc.Categories = []string{"assets:checking"}
	require.NoError(t, WriteFile(doc, path))

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "open Assets:Checking\n", string(content))
}

func TestWriteFileByteIdenticalOnRerun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.ledger")
	doc := &rules.Document{Categories: []string{"expenses:software", "income:salary"}}

	require.NoError(t, WriteFile(doc, path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteFile(doc, path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
