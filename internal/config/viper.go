package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Ledger struct {
		Root           string `mapstructure:"root" yaml:"root"`
		RulesFile      string `mapstructure:"rules_file" yaml:"rules_file"`
		AccountsFile   string `mapstructure:"accounts_file" yaml:"accounts_file"`
		DefaultAccount string `mapstructure:"default_account" yaml:"default_account"`
	} `mapstructure:"ledger" yaml:"ledger"`

	Categorization struct {
		AutoLearn  bool `mapstructure:"auto_learn" yaml:"auto_learn"`
		AutoCreate bool `mapstructure:"auto_create" yaml:"auto_create"`
	} `mapstructure:"categorization" yaml:"categorization"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.txn-ledger")
	v.AddConfigPath(".txn-ledger")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("TXNLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key always comes from the unprefixed environment variable
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("ledger.root", "ledger")
	v.SetDefault("ledger.rules_file", "rules.json")
	// Not .journal: the integrity checker scans .journal files under the
	// ledger root, and open directives are not entries.
	v.SetDefault("ledger.accounts_file", "accounts.ledger")
	v.SetDefault("ledger.default_account", "assets:checking")

	v.SetDefault("categorization.auto_learn", false)
	v.SetDefault("categorization.auto_create", false)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Ledger.Root == "" {
		return fmt.Errorf("ledger.root must not be empty")
	}
	if config.Ledger.RulesFile == "" {
		return fmt.Errorf("ledger.rules_file must not be empty")
	}
	if config.Ledger.DefaultAccount == "" {
		return fmt.Errorf("ledger.default_account must not be empty")
	}

	if config.AI.Enabled && config.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
	}

	return nil
}
