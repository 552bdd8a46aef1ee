package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/pipval/instrument"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration read by the pipval CLI.
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account"`
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Reference ReferenceConfig `json:"reference" yaml:"reference"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics"`
}

// AccountConfig holds the balance used for position sizing
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// RiskConfig percentages are whole percents: 1 means 1% of balance.
type RiskConfig struct {
	RiskPercent    float64 `json:"risk_percent" yaml:"risk_percent"`
	MaxRiskPercent float64 `json:"max_risk_percent" yaml:"max_risk_percent"`
}

// ReferenceConfig points at an optional YAML file merged over the built-in
// instrument specs and rates.
type ReferenceConfig struct {
	TablesFile string `json:"tables_file,omitempty" yaml:"tables_file,omitempty"`
}

type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// MetricsConfig.Textfile, when set, receives Prometheus metrics after
// each command.
type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(strings.TrimSpace(c.Account.Currency)) != 3 {
		return fmt.Errorf("account.currency must be a 3 letter code")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Risk.RiskPercent <= 0 || c.Risk.RiskPercent > 100 {
		return fmt.Errorf("risk.risk_percent must be between 0 and 100")
	}
	if c.Risk.MaxRiskPercent < c.Risk.RiskPercent || c.Risk.MaxRiskPercent > 100 {
		return fmt.Errorf("risk.max_risk_percent must be between risk_percent and 100")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.Reference.TablesFile != "" {
		if _, err := os.Stat(c.Reference.TablesFile); err != nil {
			return fmt.Errorf("reference.tables_file: %w", err)
		}
	}
	return nil
}

// Resolver builds the instrument resolver, merging Reference.TablesFile
// over the built-in tables when set.
func (c *Config) Resolver() (*instrument.Resolver, error) {
	if c.Reference.TablesFile == "" {
		return instrument.Default(), nil
	}
	t, err := instrument.LoadTables(c.Reference.TablesFile)
	if err != nil {
		return nil, err
	}
	return instrument.NewResolver(t), nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "ACC-001",
			Currency: "USD",
			Balance:  10000,
		},
		Risk: RiskConfig{
			RiskPercent:    1,
			MaxRiskPercent: 2,
		},
		Journal: JournalConfig{
			DBPath: "./pipval.sqlite",
		},
	}
}
