// Package check implements the ledger integrity command: duplicate journal
// file detection and structural validation of every entry.
package check

import (
	"os"

	"fjacquet/txn-ledger/cmd/root"
	"fjacquet/txn-ledger/internal/integrity"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var reportFile string

// Cmd represents the check command
var Cmd = &cobra.Command{
	Use:   "check",
	Short: "Check the journal tree for duplicates and structural problems",
	Long: `Check hashes every journal file under the ledger root to find duplicated
files, and validates every entry (balanced postings, valid account paths,
date and description present). All problems are reported in one run; the
command exits non-zero when anything is found but never modifies files.`,
	Run: checkFunc,
}

func init() {
	Cmd.Flags().StringVarP(&reportFile, "output", "o", "", "Write a YAML report to this file")
}

func checkFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg

	duplicates, err := integrity.FindDuplicates(cfg.Ledger.Root)
	if err != nil {
		root.Log.Fatalf("Duplicate scan failed: %v", err)
	}
	violations, err := integrity.ValidateTree(cfg.Ledger.Root)
	if err != nil {
		root.Log.Fatalf("Validation failed to run: %v", err)
	}

	for _, group := range duplicates {
		root.Log.WithFields(logrus.Fields{
			"hash":  group.Hash,
			"paths": group.Paths,
		}).Error("Duplicate journal files")
	}
	for _, v := range violations {
		root.Log.Error(v.Error())
	}

	report := integrity.NewReport(duplicates, violations)
	if reportFile != "" {
		if err := report.WriteYAML(reportFile); err != nil {
			root.Log.Fatalf("Failed to write report: %v", err)
		}
		root.Log.WithField("path", reportFile).Info("Wrote integrity report")
	}

	if !report.Clean() {
		root.Log.Errorf("Integrity check found %d duplicate groups and %d violations",
			len(report.Duplicates), len(report.Violations))
		os.Exit(1)
	}
	root.Log.Info("Journal tree is clean")
}
