// Package feedback implements the interactive correction command. Feedback
// text like "Acme Corp invoice should be income:consulting" records an
// override, re-books affected journal entries append-only, and persists the
// updated rules.
package feedback

import (
	"bufio"
	"errors"
	"os"

	"fjacquet/txn-ledger/cmd/root"
	"fjacquet/txn-ledger/internal/journal"
	"fjacquet/txn-ledger/internal/ledgererror"
	"fjacquet/txn-ledger/internal/rules"

	"github.com/spf13/cobra"
)

// Cmd represents the feedback command
var Cmd = &cobra.Command{
	Use:   "feedback [text]",
	Short: "Correct a misclassification from free-text feedback",
	Long: `Feedback accepts corrections of the form "<description> should be
<category>" (or "<description> -> <category>"), either as a single argument
or as lines on standard input until end-of-input. Each correction updates
the override table, appends a reversal plus a corrected entry for any
previously booked transaction with that description, and saves the rules
atomically.`,
	Args: cobra.MaximumNArgs(1),
	Run:  feedbackFunc,
}

func feedbackFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg

	store := rules.NewStore(cfg.Ledger.RulesFile)
	// There is nothing to learn from without an existing rule set.
	doc, err := store.Load()
	if err != nil {
		root.Log.Fatalf("Cannot load classification rules: %v", err)
	}
	engine := root.NewClassifier(doc, store)
	writer := journal.NewWriter(cfg.Ledger.Root)

	if len(args) == 1 {
		// Single-item mode: a bad correction fails the invocation.
		if err := engine.ProcessFeedback(args[0], writer, cfg.Ledger.DefaultAccount); err != nil {
			root.Log.Fatalf("Feedback rejected: %v", err)
		}
		return
	}

	// Batch mode: read corrections from stdin until EOF, skipping lines that
	// fail classification and stopping hard on anything else.
	applied, skipped := 0, 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		err := engine.ProcessFeedback(line, writer, cfg.Ledger.DefaultAccount)
		if err == nil {
			applied++
			continue
		}
		var cerr *ledgererror.ClassificationError
		if errors.As(err, &cerr) {
			skipped++
			root.Log.WithError(err).Error("Skipping feedback line")
			continue
		}
		root.Log.Fatalf("Feedback processing failed: %v", err)
	}
	if err := scanner.Err(); err != nil {
		root.Log.Fatalf("Failed to read feedback input: %v", err)
	}

	root.Log.Infof("Applied %d corrections, skipped %d", applied, skipped)
	if applied == 0 && skipped > 0 {
		os.Exit(1)
	}
}
