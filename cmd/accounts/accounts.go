// Package accounts implements the command that regenerates the account
// directive file from the current rule set.
package accounts

import (
	"fjacquet/txn-ledger/cmd/root"
	"fjacquet/txn-ledger/internal/accounts"
	"fjacquet/txn-ledger/internal/rules"

	"github.com/spf13/cobra"
)

// Cmd represents the accounts command
var Cmd = &cobra.Command{
	Use:   "accounts",
	Short: "Regenerate account open directives from the rule set",
	Long: `Accounts derives one "open <account>" directive per category in the rule
set, normalized, deduplicated and sorted, and rewrites the account directive
file wholesale. Re-running with unchanged rules produces identical output.`,
	Run: accountsFunc,
}

func accountsFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg

	store := rules.NewStore(cfg.Ledger.RulesFile)
	doc, err := store.Load()
	if err != nil {
		root.Log.Fatalf("Cannot load classification rules: %v", err)
	}

	if err := accounts.WriteFile(doc, cfg.Ledger.AccountsFile); err != nil {
		root.Log.Fatalf("Failed to write account directives: %v", err)
	}
}
