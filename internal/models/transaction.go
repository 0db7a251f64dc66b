// Package models defines the core data types shared by the classification
// engine, the journal writer and the integrity checker.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single raw transaction as exported by the source
// system. It is immutable once read; classification produces a derived
// ClassifiedTransaction instead of mutating it in place.
type Transaction struct {
	Date         time.Time       `json:"date" yaml:"date"`
	Description  string          `json:"description" yaml:"description"`
	Amount       decimal.Decimal `json:"amount" yaml:"amount"`
	Counterparty string          `json:"counterparty,omitempty" yaml:"counterparty,omitempty"`
}

// Confidence indicates which mechanism produced a classification.
type Confidence string

const (
	ConfidenceOverride     Confidence = "override"
	ConfidencePattern      Confidence = "pattern"
	ConfidenceUnclassified Confidence = "unclassified"
)

// ClassifiedTransaction is a Transaction plus its assigned category.
type ClassifiedTransaction struct {
	Transaction
	Category   string     `json:"category" yaml:"category"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// NormalizeDescription canonicalizes a transaction description for exact
// override lookup: trimmed, inner whitespace collapsed, lowercased.
func NormalizeDescription(description string) string {
	return strings.ToLower(strings.Join(strings.Fields(description), " "))
}
