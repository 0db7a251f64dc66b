package classifier

import (
	"context"

	"fjacquet/txn-ledger/internal/models"
)

// AIClient is the interface for a network-backed classification source,
// consulted only after both overrides and patterns have missed.
type AIClient interface {
	// Categorize returns a category name for the transaction. The returned
	// name must be one of the rule document's categories to be accepted.
	Categorize(ctx context.Context, tx models.Transaction) (string, error)
}
