package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 10000.0, cfg.Account.Balance)
	assert.Equal(t, 1.0, cfg.Risk.RiskPercent)
	assert.Equal(t, 2.0, cfg.Risk.MaxRiskPercent)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	with := func(mod func(*Config)) *Config {
		c := Default()
		mod(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			config: Default(),
		},
		{
			name:    "missing currency",
			config:  with(func(c *Config) { c.Account.Currency = "" }),
			wantErr: true,
			errMsg:  "account.currency must be a 3 letter code",
		},
		{
			name:    "negative balance",
			config:  with(func(c *Config) { c.Account.Balance = -1000 }),
			wantErr: true,
			errMsg:  "account.balance must be positive",
		},
		{
			name:    "zero risk percent",
			config:  with(func(c *Config) { c.Risk.RiskPercent = 0 }),
			wantErr: true,
			errMsg:  "risk.risk_percent must be between 0 and 100",
		},
		{
			name:    "max below default",
			config:  with(func(c *Config) { c.Risk.MaxRiskPercent = 0.5 }),
			wantErr: true,
			errMsg:  "risk.max_risk_percent",
		},
		{
			name:    "missing db path",
			config:  with(func(c *Config) { c.Journal.DBPath = "" }),
			wantErr: true,
			errMsg:  "journal.db_path is required",
		},
		{
			name:    "missing tables file",
			config:  with(func(c *Config) { c.Reference.TablesFile = "/nonexistent/ref.yaml" }),
			wantErr: true,
			errMsg:  "reference.tables_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Account.Balance = 25000
			cfg.Metrics.Textfile = "/tmp/pipval.prom"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  currency: EUR\n  balance: 5000\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Account.Currency)
	assert.Equal(t, 5000.0, cfg.Account.Balance)
	assert.Equal(t, 1.0, cfg.Risk.RiskPercent)
	assert.Equal(t, "./pipval.sqlite", cfg.Journal.DBPath)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestResolver(t *testing.T) {
	r, err := Default().Resolver()
	require.NoError(t, err)
	assert.True(t, r.Known("EURUSD"))

	path := filepath.Join(t.TempDir(), "ref.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rates:\n  USDJPY: 140\n"), 0644))

	cfg := Default()
	cfg.Reference.TablesFile = path
	r, err = cfg.Resolver()
	require.NoError(t, err)
	assert.Equal(t, 140.0, r.ExchangeRate("USDJPY"))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAccountCurrency, "gbp")
	t.Setenv(EnvAccountBalance, "2500.5")
	t.Setenv(EnvRiskPercent, "0.5")
	t.Setenv(EnvJournalDB, "/tmp/j.db")
	t.Setenv(EnvTablesFile, "/tmp/ref.yaml")
	t.Setenv(EnvMetricsTextfile, "/tmp/m.prom")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "GBP", cfg.Account.Currency)
	assert.Equal(t, 2500.5, cfg.Account.Balance)
	assert.Equal(t, 0.5, cfg.Risk.RiskPercent)
	assert.Equal(t, "/tmp/j.db", cfg.Journal.DBPath)
	assert.Equal(t, "/tmp/ref.yaml", cfg.Reference.TablesFile)
	assert.Equal(t, "/tmp/m.prom", cfg.Metrics.Textfile)
}

func TestApplyEnvBadNumber(t *testing.T) {
	t.Setenv(EnvAccountBalance, "lots")

	err := Default().ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAccountBalance)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvJournalDB+"=/tmp/from-dotenv.db\n"), 0644))

	t.Setenv(EnvJournalDB, "")
	require.NoError(t, os.Unsetenv(EnvJournalDB))

	require.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "/tmp/from-dotenv.db", os.Getenv(EnvJournalDB))
}
