// Package root contains the root command for the application
package root

import (
	"fjacquet/txn-ledger/internal/accounts"
	"fjacquet/txn-ledger/internal/classifier"
	"fjacquet/txn-ledger/internal/config"
	"fjacquet/txn-ledger/internal/csvimport"
	"fjacquet/txn-ledger/internal/integrity"
	"fjacquet/txn-ledger/internal/journal"
	"fjacquet/txn-ledger/internal/rules"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "txn-ledger",
		Short: "Classify bank transactions and book them into a plain-text ledger.",
		Long: `txn-ledger classifies raw bank transactions against a user-correctable
rule set and appends balanced double-entry postings to year-partitioned
journal files. Misclassifications are corrected through free-text feedback
that durably updates the rules.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			Cfg = cfg
			applyFlagOverrides()

			Log = config.ConfigureLogging(Cfg)

			// Hand the configured logger to every package
			rules.SetLogger(Log)
			classifier.SetLogger(Log)
			journal.SetLogger(Log)
			accounts.SetLogger(Log)
			integrity.SetLogger(Log)
			csvimport.SetLogger(Log)
		},
	}

	// Persistent flag values; when set they override the loaded config.
	LedgerRoot     string
	RulesFile      string
	DefaultAccount string
)

func applyFlagOverrides() {
	if LedgerRoot != "" {
		Cfg.Ledger.Root = LedgerRoot
	}
	if RulesFile != "" {
		Cfg.Ledger.RulesFile = RulesFile
	}
	if DefaultAccount != "" {
		Cfg.Ledger.DefaultAccount = DefaultAccount
	}
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&LedgerRoot, "ledger-root", "l", "", "Ledger root directory (default from config)")
	Cmd.PersistentFlags().StringVarP(&RulesFile, "rules", "r", "", "Classification rules file (default from config)")
	Cmd.PersistentFlags().StringVarP(&DefaultAccount, "default-account", "d", "", "Default clearing account (default from config)")
}

// NewClassifier builds the classification engine from the given rule
// document, wiring the optional AI fallback and the configured learning
// behavior.
func NewClassifier(doc *rules.Document, store *rules.Store) *classifier.Classifier {
	var ai classifier.AIClient
	if Cfg.AI.Enabled {
		ai = classifier.NewGeminiClient(Cfg.AI.APIKey, Cfg.AI.Model, doc.Categories)
		Log.WithField("model", Cfg.AI.Model).Debug("AI fallback classification enabled")
	}

	c := classifier.New(doc, store, ai)
	c.SetAutoLearn(Cfg.Categorization.AutoLearn)
	c.SetAutoCreate(Cfg.Categorization.AutoCreate)
	return c
}
