// Package classify implements the batch classification command: it reads a
// CSV bank export, classifies every transaction and appends journal entries.
package classify

import (
	"fjacquet/txn-ledger/cmd/root"
	"fjacquet/txn-ledger/internal/csvimport"
	"fjacquet/txn-ledger/internal/journal"
	"fjacquet/txn-ledger/internal/models"
	"fjacquet/txn-ledger/internal/rules"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var inputFile string

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a CSV bank export and append journal entries",
	Long: `Classify reads transactions from a CSV file, assigns each to an account
category using the rule set, and appends a balanced double-entry posting to
the journal file for the transaction's year. Transactions no rule matches
are booked as uncategorized; the run only fails on rule-file corruption or
a journal write failure.`,
	Run: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input CSV file")
	if err := Cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}
}

func classifyFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg

	store := rules.NewStore(cfg.Ledger.RulesFile)
	// First run is a bootstrap condition: start with empty rules.
	doc, err := store.LoadOrInit()
	if err != nil {
		root.Log.Fatalf("Cannot load classification rules: %v", err)
	}
	engine := root.NewClassifier(doc, store)

	transactions, err := csvimport.ReadFile(inputFile, rune(cfg.CSV.Delimiter[0]))
	if err != nil {
		root.Log.Fatalf("Cannot read transactions: %v", err)
	}

	writer := journal.NewWriter(cfg.Ledger.Root)
	counts := make(map[string]int)
	unclassified := 0

	for _, tx := range transactions {
		ct := engine.Classify(tx)
		counts[ct.Category]++
		if ct.Confidence == models.ConfidenceUnclassified {
			unclassified++
			root.Log.WithField("description", tx.Description).Warn("No rule matched, booking as uncategorized")
		} else {
			root.Log.WithFields(logrus.Fields{
				"description": tx.Description,
				"category":    ct.Category,
				"confidence":  ct.Confidence,
			}).Debug("Classified transaction")
		}

		if _, err := writer.WriteEntry(ct, cfg.Ledger.DefaultAccount); err != nil {
			// A failed write must never be reported as success.
			root.Log.Fatalf("Journal write failed: %v", err)
		}
	}

	if err := engine.Persist(); err != nil {
		root.Log.Fatalf("Failed to persist learned rules: %v", err)
	}

	root.Log.WithFields(logrus.Fields{
		"transactions": len(transactions),
		"categories":   len(counts),
		"unclassified": unclassified,
	}).Info("Classification run finished")
	for category, n := range counts {
		root.Log.Infof("  %-40s %d", category, n)
	}
}
