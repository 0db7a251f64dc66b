package classifier

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/txn-ledger/internal/ledgererror"
	"fjacquet/txn-ledger/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements AIClient against the Google Gemini API.
type GeminiClient struct {
	apiKey     string
	modelName  string
	categories []string

	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a Gemini-backed classification client. The client
// connects lazily on first use. The category list constrains the prompt so
// the model picks from the rule document's chart of accounts.
func NewGeminiClient(apiKey, modelName string, categories []string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		modelName:  modelName,
		categories: categories,
	}
}

// ensureClient initializes the underlying API client on first use.
func (g *GeminiClient) ensureClient(ctx context.Context) error {
	if g.client != nil {
		return nil
	}
	if g.apiKey == "" {
		return &ledgererror.APIConnectionError{
			Service: "gemini",
			Err:     fmt.Errorf("no API key configured"),
		}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return &ledgererror.APIConnectionError{Service: "gemini", Err: err}
	}
	g.client = client
	g.model = client.GenerativeModel(g.modelName)
	return nil
}

// Categorize prompts the model to pick exactly one known category for the
// transaction. Failures surface as APIConnectionError.
func (g *GeminiClient) Categorize(ctx context.Context, tx models.Transaction) (string, error) {
	if err := g.ensureClient(ctx); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Classify the following financial transaction:
Description: %s
Amount: %s
Date: %s

Assign it to exactly one of the following account categories:
%s

Respond with a single line:
Category: <chosen category>`,
		tx.Description,
		tx.Amount.StringFixed(2),
		tx.Date.Format("2006-01-02"),
		strings.Join(g.categories, ", "))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ledgererror.APIConnectionError{Service: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ledgererror.APIConnectionError{
			Service: "gemini",
			Err:     fmt.Errorf("empty response"),
		}
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return extractCategory(text, g.categories), nil
}

// extractCategory pulls the category out of a "Category: X" response line,
// falling back to the first known category mentioned anywhere in the text.
func extractCategory(response string, known []string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
		}
	}
	for _, category := range known {
		if strings.Contains(response, category) {
			return category
		}
	}
	return ""
}
