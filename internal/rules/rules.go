// Package rules defines the persisted classification rule document and its
// on-disk store. The document is a single JSON file with three top-level
// keys: categories, patterns and overrides. Patterns are order-significant;
// the first matching pattern wins.
package rules

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"fjacquet/txn-ledger/internal/models"
)

// PatternRule pairs a regular expression with the category assigned when the
// expression matches a transaction description. On disk a rule is a
// two-element JSON array [regex, category].
type PatternRule struct {
	Expr     string
	Category string

	re *regexp.Regexp
}

// UnmarshalJSON decodes the two-element array form.
func (r *PatternRule) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("pattern rule must be a two-element array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("pattern rule must have exactly 2 elements, got %d", len(pair))
	}
	r.Expr = pair[0]
	r.Category = pair[1]
	return nil
}

// MarshalJSON encodes the two-element array form.
func (r PatternRule) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{r.Expr, r.Category})
}

// Regexp returns the compiled expression. It is nil until Compile has run.
func (r *PatternRule) Regexp() *regexp.Regexp {
	return r.re
}

// Document is the in-memory form of the classification rule file.
type Document struct {
	Categories []string          `json:"categories"`
	Patterns   []PatternRule     `json:"patterns"`
	Overrides  map[string]string `json:"overrides"`
}

// NewDocument returns an empty rule document, the bootstrap state used when
// no rule file exists yet.
func NewDocument() *Document {
	return &Document{
		Categories: []string{},
		Patterns:   []PatternRule{},
		Overrides:  map[string]string{},
	}
}

// Compile compiles every pattern expression, case-insensitively. It fails on
// the first expression that does not compile so a partially valid rule set is
// never applied.
func (d *Document) Compile() error {
	for i := range d.Patterns {
		re, err := regexp.Compile("(?i)" + d.Patterns[i].Expr)
		if err != nil {
			return fmt.Errorf("invalid pattern '%s': %w", d.Patterns[i].Expr, err)
		}
		d.Patterns[i].re = re
	}
	return nil
}

// Validate checks the structural invariant that every category referenced by
// a pattern or an override appears in Categories.
func (d *Document) Validate() error {
	known := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		known[c] = true
	}
	for _, p := range d.Patterns {
		if !known[p.Category] {
			return fmt.Errorf("pattern '%s' references unknown category '%s'", p.Expr, p.Category)
		}
	}
	for desc, cat := range d.Overrides {
		if !known[cat] {
			return fmt.Errorf("override '%s' references unknown category '%s'", desc, cat)
		}
	}
	return nil
}

// HasCategory reports whether the category is part of the document.
func (d *Document) HasCategory(category string) bool {
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// AddCategory inserts a category, keeping Categories sorted and free of
// duplicates.
func (d *Document) AddCategory(category string) {
	if d.HasCategory(category) {
		return
	}
	d.Categories = append(d.Categories, category)
	sort.Strings(d.Categories)
}

// SetOverride records an exact-match description override. The description is
// normalized (trimmed, lowercased) before use as a key.
func (d *Document) SetOverride(description, category string) {
	if d.Overrides == nil {
		d.Overrides = map[string]string{}
	}
	d.Overrides[models.NormalizeDescription(description)] = category
}

// LookupOverride returns the override category for a description, if any.
func (d *Document) LookupOverride(description string) (string, bool) {
	category, ok := d.Overrides[models.NormalizeDescription(description)]
	return category, ok
}
