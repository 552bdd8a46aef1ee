package cmd

import (
	"fmt"

	"github.com/rustyeddy/pipval/valuation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var specCmd = &cobra.Command{
	Use:   "spec [symbol]",
	Short: "Show the resolved instrument spec, or list known symbols",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSpec,
}

var pipCmd = &cobra.Command{
	Use:   "pip <symbol>",
	Short: "Pip value per standard lot",
	Args:  cobra.ExactArgs(1),
	RunE:  runPip,
}

var riskCmd = &cobra.Command{
	Use:   "risk <symbol>",
	Short: "Risk, potential profit and risk limit check for a planned trade",
	Long: `Compute the money at risk between entry and stop for a lot size.

Example:
  pipval risk EUR/USD --lots 0.5 --entry 1.1000 --stop 1.0950 --target 1.1100`,
	Args: cobra.ExactArgs(1),
	RunE: runRisk,
}

var sizeCmd = &cobra.Command{
	Use:   "size <symbol>",
	Short: "Suggest a lot size for a risk percentage of the account",
	Long: `Size a position so that a stop-out loses the configured share of balance.

Example:
  pipval size XAU/USD --entry 2350 --stop 2340 --risk-pct 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runSize,
}

var (
	calcLots    float64
	calcEntry   float64
	calcStop    float64
	calcTarget  float64
	calcRiskPct float64
	calcBalance float64
)

func init() {
	rootCmd.AddCommand(specCmd, pipCmd, riskCmd, sizeCmd)

	for _, c := range []*cobra.Command{riskCmd, sizeCmd} {
		c.Flags().Float64Var(&calcEntry, "entry", 0, "entry price (required)")
		c.Flags().Float64Var(&calcStop, "stop", 0, "stop price (required)")
		c.Flags().Float64Var(&calcBalance, "balance", 0, "account balance (default from config)")
		c.MarkFlagRequired("entry")
		c.MarkFlagRequired("stop")
	}
	riskCmd.Flags().Float64Var(&calcLots, "lots", 1, "lot size")
	riskCmd.Flags().Float64Var(&calcTarget, "target", 0, "take profit price")
	sizeCmd.Flags().Float64Var(&calcRiskPct, "risk-pct", 0, "percent of balance to risk (default from config)")
}

func runSpec(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	r := a.engine.Resolver()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, s := range r.Symbols() {
			spec := r.Spec(s)
			fmt.Fprintf(out, "%-8s %-9s contract=%g pip=%g\n", s, spec.AssetClass, spec.ContractSize, spec.PipSize)
		}
		return nil
	}

	spec := r.Spec(args[0])
	fmt.Fprintf(out, "Symbol:        %s\n", spec.Symbol)
	fmt.Fprintf(out, "Known:         %t\n", r.Known(spec.Symbol))
	fmt.Fprintf(out, "Asset class:   %s\n", spec.AssetClass)
	fmt.Fprintf(out, "Pair type:     %s\n", r.PairType(spec.Symbol))
	fmt.Fprintf(out, "Contract size: %g\n", spec.ContractSize)
	fmt.Fprintf(out, "Pip size:      %g\n", spec.PipSize)
	fmt.Fprintf(out, "Base value:    %g\n", spec.BaseValue)
	fmt.Fprintf(out, "Rate:          %g\n", r.ExchangeRate(spec.Symbol))
	return nil
}

func runPip(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s pip value: %.4f %s per lot\n",
		args[0], a.engine.PipValue(args[0]), a.engine.AccountCurrency())
	return nil
}

func (a *app) balance() float64 {
	if calcBalance > 0 {
		return calcBalance
	}
	return a.cfg.Account.Balance
}

func runRisk(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	sym, e := args[0], a.engine
	ccy := e.AccountCurrency()
	bal := a.balance()
	out := cmd.OutOrStdout()

	logger.Debug("risk",
		zap.String("symbol", sym),
		zap.Float64("lots", calcLots),
		zap.Float64("entry", calcEntry),
		zap.Float64("stop", calcStop),
		zap.Float64("balance", bal),
	)

	fmt.Fprintf(out, "Risk amount:  %.2f %s\n", e.RiskAmount(sym, calcLots, calcEntry, calcStop), ccy)
	if calcTarget > 0 {
		fmt.Fprintf(out, "Profit:       %.2f %s\n", e.PotentialProfit(sym, calcLots, calcEntry, calcTarget), ccy)
	}

	check := e.IsWithinRiskLimit(sym, calcLots, calcEntry, calcStop, bal, a.cfg.Risk.MaxRiskPercent)
	a.metrics.ObserveRiskCheck(check)
	fmt.Fprintf(out, "Risk:         %.2f%% of %.2f (max %.2f%%)\n", check.ActualRisk, bal, check.MaxRisk)
	if !check.Valid {
		fmt.Fprintln(out, "WARNING: risk limit exceeded")
	}
	return a.flush()
}

func runSize(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	pct := calcRiskPct
	if pct <= 0 {
		pct = a.cfg.Risk.RiskPercent
	}
	bal := a.balance()

	lots := a.engine.SuggestedLotSize(args[0], calcEntry, calcStop, bal, pct)
	risk := a.engine.RiskAmount(args[0], lots, calcEntry, calcStop)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Suggested lots: %.2f\n", lots)
	fmt.Fprintf(out, "Risk amount:    %.2f %s (%.2f%% target)\n", valuation.Round2(risk), a.engine.AccountCurrency(), pct)
	return nil
}
