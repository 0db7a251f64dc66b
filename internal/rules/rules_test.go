package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternRuleUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedExpr string
		expectedCat  string
	}{
		{
			name:         "valid two-element array",
			input:        `["(?i)github", "expenses:software"]`,
			expectedExpr: "(?i)github",
			expectedCat:  "expenses:software",
		},
		{
			name:        "too few elements",
			input:       `["github"]`,
			expectError: true,
		},
		{
			name:        "too many elements",
			input:       `["a", "b", "c"]`,
			expectError: true,
		},
		{
			name:        "not an array",
			input:       `{"regex": "github"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rule PatternRule
			err := json.Unmarshal([]byte(tt.input), &rule)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedExpr, rule.Expr)
			assert.Equal(t, tt.expectedCat, rule.Category)
		})
	}
}

func TestPatternRuleMarshalRoundTrip(t *testing.T) {
	rule := PatternRule{Expr: "netflix", Category: "expenses:streaming"}
	data, err := json.Marshal(rule)
	require.NoError(t, err)
	assert.JSONEq(t, `["netflix", "expenses:streaming"]`, string(data))
}

func TestDocumentCompile(t *testing.T) {
	doc := &Document{
		Categories: []string{"expenses:software"},
		Patterns: []PatternRule{
			{Expr: "github", Category: "expenses:software"},
		},
	}
	require.NoError(t, doc.Compile())
	require.NotNil(t, doc.Patterns[0].Regexp())

	// Matching is case-insensitive even without an explicit (?i)
	assert.True(t, doc.Patterns[0].Regexp().MatchString("GITHUB INC"))
}

func TestDocumentCompileInvalidPattern(t *testing.T) {
	doc := &Document{
		Patterns: []PatternRule{
			{Expr: "ok", Category: "a"},
			{Expr: "([unclosed", Category: "b"},
		},
	}
	err := doc.Compile()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name        string
		doc         Document
		expectError bool
	}{
		{
			name: "consistent document",
			doc: Document{
				Categories: []string{"expenses:software", "income:consulting"},
				Patterns:   []PatternRule{{Expr: "github", Category: "expenses:software"}},
				Overrides:  map[string]string{"acme corp": "income:consulting"},
			},
		},
		{
			name: "pattern references unknown category",
			doc: Document{
				Categories: []string{"expenses:software"},
				Patterns:   []PatternRule{{Expr: "uber", Category: "expenses:transport"}},
			},
			expectError: true,
		},
		{
			name: "override references unknown category",
			doc: Document{
				Categories: []string{"expenses:software"},
				Overrides:  map[string]string{"acme": "income:consulting"},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDocumentAddCategory(t *testing.T) {
	doc := NewDocument()
	doc.AddCategory("expenses:software")
	doc.AddCategory("assets:checking")
	doc.AddCategory("expenses:software") // duplicate

	assert.Equal(t, []string{"assets:checking", "expenses:software"}, doc.Categories)
}

func TestDocumentOverrideNormalization(t *testing.T) {
	doc := NewDocument()
	doc.AddCategory("expenses:software")
	doc.SetOverride("  GitHub   Inc  ", "expenses:software")

	category, ok := doc.LookupOverride("github inc")
	assert.True(t, ok)
	assert.Equal(t, "expenses:software", category)

	// Lookup normalizes the same way
	category, ok = doc.LookupOverride("GITHUB INC")
	assert.True(t, ok)
	assert.Equal(t, "expenses:software", category)
}
