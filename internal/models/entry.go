package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting is a single line item of a double-entry journal entry.
type Posting struct {
	Account string          `json:"account" yaml:"account"`
	Amount  decimal.Decimal `json:"amount" yaml:"amount"`
}

// JournalEntry is a dated, described group of postings whose amounts sum to
// zero. Entries are appended to year-partitioned journal files and are never
// rewritten once written.
type JournalEntry struct {
	Date        time.Time `json:"date" yaml:"date"`
	Description string    `json:"description" yaml:"description"`
	Postings    []Posting `json:"postings" yaml:"postings"`
}

// PostingSum returns the signed sum of all posting amounts.
func (e JournalEntry) PostingSum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range e.Postings {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// IsBalanced reports whether the postings sum to exactly zero.
func (e JournalEntry) IsBalanced() bool {
	return e.PostingSum().IsZero()
}

// Year returns the journal partition the entry belongs to.
func (e JournalEntry) Year() int {
	return e.Date.Year()
}
