package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides, applied after the config file.
const (
	EnvAccountCurrency = "PIPVAL_ACCOUNT_CURRENCY"
	EnvAccountBalance  = "PIPVAL_ACCOUNT_BALANCE"
	EnvRiskPercent     = "PIPVAL_RISK_PERCENT"
	EnvJournalDB       = "PIPVAL_JOURNAL_DB"
	EnvTablesFile      = "PIPVAL_TABLES_FILE"
	EnvMetricsTextfile = "PIPVAL_METRICS_TEXTFILE"
)

// LoadEnv reads .env style files into the process environment. Missing
// files are skipped; variables already set win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides c from the PIPVAL_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := getEnv(EnvAccountCurrency); v != "" {
		c.Account.Currency = strings.ToUpper(v)
	}
	if v := getEnv(EnvAccountBalance); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAccountBalance, err)
		}
		c.Account.Balance = f
	}
	if v := getEnv(EnvRiskPercent); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRiskPercent, err)
		}
		c.Risk.RiskPercent = f
	}
	if v := getEnv(EnvJournalDB); v != "" {
		c.Journal.DBPath = v
	}
	if v := getEnv(EnvTablesFile); v != "" {
		c.Reference.TablesFile = v
	}
	if v := getEnv(EnvMetricsTextfile); v != "" {
		c.Metrics.Textfile = v
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
