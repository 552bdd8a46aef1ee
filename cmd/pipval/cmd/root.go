package cmd

import (
	"fmt"

	"github.com/rustyeddy/pipval/config"
	"github.com/rustyeddy/pipval/metrics"
	"github.com/rustyeddy/pipval/settlement"
	"github.com/rustyeddy/pipval/valuation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "pipval",
	Short: "Pip valuation, position sizing and trade P&L for multi-asset instruments",
	Long: `pipval converts price movement on forex pairs, metals, crypto, commodities
and indices into money.

It provides tools for:
  - Pip/point values per standard lot
  - Risk and potential profit for a planned trade
  - Risk-based lot sizing and risk limit checks
  - A SQLite trade journal with realized P&L and risk/reward`,
	SilenceUsage: true,
}

var (
	cfgFile string
	envFile string
	verbose bool

	logger = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with PIPVAL_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	}
}

// newLogger is silent unless verbose, in which case it logs at debug
// level to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// app is the wiring shared by the subcommands.
type app struct {
	cfg     *config.Config
	engine  *valuation.Engine
	settler *settlement.Settler
	metrics *metrics.Recorder
}

func loadApp() (*app, error) {
	if err := config.LoadEnv(envFile); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if cfgFile != "" {
		c, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
		logger.Info("loaded config", zap.String("path", cfgFile))
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r, err := cfg.Resolver()
	if err != nil {
		return nil, err
	}
	if cfg.Reference.TablesFile != "" {
		logger.Info("reference data loaded", zap.String("path", cfg.Reference.TablesFile))
	}

	engine := valuation.New(r, valuation.WithAccountCurrency(cfg.Account.Currency))
	return &app{
		cfg:     cfg,
		engine:  engine,
		settler: settlement.New(engine),
		metrics: metrics.New(),
	}, nil
}

// flush writes metrics when a textfile is configured.
func (a *app) flush() error {
	if a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	logger.Debug("metrics written", zap.String("path", a.cfg.Metrics.Textfile))
	return nil
}
