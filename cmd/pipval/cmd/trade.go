package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/pipval/journal"
	"github.com/rustyeddy/pipval/settlement"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Record trades and their realized P&L in the journal",
	Long: `Manage trades in the SQLite journal. Every write re-evaluates the
trade's profit/loss and risk/reward ratio.

Examples:
  pipval trade add EUR/USD --side buy --qty 100000 --entry 1.1000 --sl 1.0950 --tp 1.1100
  pipval trade close <trade-id> --exit 1.1050
  pipval trade list --status closed
  pipval trade export --out trades.csv`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "Open a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeAdd,
}

var tradeCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Close a trade at an exit price",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeClose,
}

var tradeUpdateCmd = &cobra.Command{
	Use:   "update <trade-id>",
	Short: "Change the levels, quantity, fees or notes of an open trade",
	Long: `Update an open trade. Only the flags given are changed; --sl 0 or
--tp 0 removes the level.`,
	Args: cobra.ExactArgs(1),
	RunE: runTradeUpdate,
}

var tradeCancelCmd = &cobra.Command{
	Use:   "cancel <trade-id>",
	Short: "Cancel an open trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeCancel,
}

var tradeShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show a trade as an Org block",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeShow,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades with a P&L summary",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV",
	Args:  cobra.NoArgs,
	RunE:  runTradeExport,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Remove a trade from the journal",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var (
	tradeSide       string
	tradeQty        float64
	tradeEntry      float64
	tradeSL         float64
	tradeTP         float64
	tradeFees       float64
	tradeCommission float64
	tradeNotes      string
	tradeExit       float64

	updQty        float64
	updSL         float64
	updTP         float64
	updFees       float64
	updCommission float64
	updNotes      string

	listStatus string
	listSymbol string
	listDay    string
	exportOut  string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd, tradeUpdateCmd, tradeCloseCmd, tradeCancelCmd,
		tradeShowCmd, tradeListCmd, tradeExportCmd, tradeDeleteCmd)

	f := tradeAddCmd.Flags()
	f.StringVar(&tradeSide, "side", "buy", "buy, sell, long or short")
	f.Float64Var(&tradeQty, "qty", 0, "quantity in units, not lots (required)")
	f.Float64Var(&tradeEntry, "entry", 0, "entry price (required)")
	f.Float64Var(&tradeSL, "sl", 0, "stop loss price")
	f.Float64Var(&tradeTP, "tp", 0, "take profit price")
	f.Float64Var(&tradeFees, "fees", 0, "fees")
	f.Float64Var(&tradeCommission, "commission", 0, "commission")
	f.StringVar(&tradeNotes, "notes", "", "free text")
	tradeAddCmd.MarkFlagRequired("qty")
	tradeAddCmd.MarkFlagRequired("entry")

	u := tradeUpdateCmd.Flags()
	u.Float64Var(&updQty, "qty", 0, "quantity in units, not lots")
	u.Float64Var(&updSL, "sl", 0, "stop loss price, 0 to clear")
	u.Float64Var(&updTP, "tp", 0, "take profit price, 0 to clear")
	u.Float64Var(&updFees, "fees", 0, "fees")
	u.Float64Var(&updCommission, "commission", 0, "commission")
	u.StringVar(&updNotes, "notes", "", "free text")

	tradeCloseCmd.Flags().Float64Var(&tradeExit, "exit", 0, "exit price (required)")
	tradeCloseCmd.MarkFlagRequired("exit")

	for _, c := range []*cobra.Command{tradeListCmd, tradeExportCmd} {
		c.Flags().StringVar(&listStatus, "status", "", "open, closed or cancelled")
		c.Flags().StringVar(&listSymbol, "symbol", "", "only this symbol")
		c.Flags().StringVar(&listDay, "day", "", "only trades closed on YYYY-MM-DD (local time)")
	}
	tradeExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

// withLedger opens the journal, runs fn and flushes metrics.
func withLedger(fn func(ctx context.Context, a *app, l *journal.Ledger, s *journal.SQLite) error) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	store, err := journal.NewSQLite(a.cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	logger.Debug("journal opened", zap.String("path", a.cfg.Journal.DBPath))

	l := journal.NewLedger(store, a.settler, journal.WithObserver(a.metrics))
	if err := fn(context.Background(), a, l, store); err != nil {
		return err
	}
	return a.flush()
}

func optPrice(p float64) *float64 {
	if p <= 0 {
		return nil
	}
	return settlement.Price(p)
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	side, err := settlement.ParseSide(tradeSide)
	if err != nil {
		return err
	}
	return withLedger(func(ctx context.Context, a *app, l *journal.Ledger, _ *journal.SQLite) error {
		rec, err := l.Open(ctx, settlement.Trade{
			Symbol:     args[0],
			Side:       side,
			Quantity:   tradeQty,
			EntryPrice: tradeEntry,
			StopLoss:   optPrice(tradeSL),
			TakeProfit: optPrice(tradeTP),
			Fees:       tradeFees,
			Commission: tradeCommission,
			Notes:      tradeNotes,
		})
		if err != nil {
			return err
		}
		logger.Info("trade opened", zap.String("id", rec.ID), zap.String("symbol", rec.Symbol))
		fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
		if rec.StopLoss != nil {
			spec := a.engine.Resolver().Spec(rec.Symbol)
			check := a.engine.IsWithinRiskLimit(rec.Symbol, rec.Quantity/spec.ContractSize,
				rec.EntryPrice, *rec.StopLoss, a.cfg.Account.Balance, a.cfg.Risk.MaxRiskPercent)
			a.metrics.ObserveRiskCheck(check)
			if !check.Valid {
				fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: %.2f%% at risk exceeds max %.2f%%\n", check.ActualRisk, check.MaxRisk)
			}
		}
		return nil
	})
}

func runTradeUpdate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	return withLedger(func(ctx context.Context, _ *app, l *journal.Ledger, s *journal.SQLite) error {
		cur, err := s.GetTrade(ctx, args[0])
		if err != nil {
			return err
		}
		t := cur.Trade
		if flags.Changed("qty") {
			t.Quantity = updQty
		}
		if flags.Changed("sl") {
			t.StopLoss = optPrice(updSL)
		}
		if flags.Changed("tp") {
			t.TakeProfit = optPrice(updTP)
		}
		if flags.Changed("fees") {
			t.Fees = updFees
		}
		if flags.Changed("commission") {
			t.Commission = updCommission
		}
		if flags.Changed("notes") {
			t.Notes = updNotes
		}

		rec, err := l.Update(ctx, t)
		if err != nil {
			return err
		}
		logger.Info("trade updated", zap.String("id", rec.ID))
		rr := "-"
		if rec.RiskRewardRatio != nil {
			rr = fmt.Sprintf("%.2f", *rec.RiskRewardRatio)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated: rr=%s\n", rec.ID, rr)
		return nil
	})
}

func runTradeClose(cmd *cobra.Command, args []string) error {
	return withLedger(func(ctx context.Context, a *app, l *journal.Ledger, _ *journal.SQLite) error {
		rec, err := l.Close(ctx, args[0], tradeExit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s closed: P&L %.2f %s\n", rec.ID, rec.ProfitLoss, a.engine.AccountCurrency())
		return nil
	})
}

func runTradeCancel(cmd *cobra.Command, args []string) error {
	return withLedger(func(ctx context.Context, _ *app, l *journal.Ledger, _ *journal.SQLite) error {
		rec, err := l.Cancel(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s cancelled\n", rec.ID)
		return nil
	})
}

func runTradeShow(cmd *cobra.Command, args []string) error {
	return withLedger(func(ctx context.Context, _ *app, _ *journal.Ledger, s *journal.SQLite) error {
		rec, err := s.GetTrade(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
		return nil
	})
}

func listFilter() (journal.Filter, error) {
	var f journal.Filter
	if listStatus != "" {
		st, err := settlement.ParseStatus(listStatus)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	f.Symbol = listSymbol
	if listDay != "" {
		start, end, err := dayBounds(time.Local, listDay)
		if err != nil {
			return f, fmt.Errorf("date: %w", err)
		}
		f.ClosedFrom, f.ClosedTo = start, end
	}
	return f, nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	filter, err := listFilter()
	if err != nil {
		return err
	}
	return withLedger(func(ctx context.Context, _ *app, _ *journal.Ledger, s *journal.SQLite) error {
		recs, err := s.ListTrades(ctx, filter)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, r := range recs {
			rr := "-"
			if r.RiskRewardRatio != nil {
				rr = fmt.Sprintf("%.2f", *r.RiskRewardRatio)
			}
			fmt.Fprintf(out, "%s  %-8s %-5s %-9s qty=%-10g entry=%-10g pl=%10.2f rr=%s\n",
				r.ID, r.Symbol, r.Side, r.Status, r.Quantity, r.EntryPrice, r.ProfitLoss, rr)
		}
		sum := journal.Summarize(recs)
		fmt.Fprintf(out, "\nclosed=%d wins=%d losses=%d net=%.2f profit_factor=%.2f\n",
			sum.Trades, sum.Wins, sum.Losses, sum.NetPL, sum.ProfitFactor)
		return nil
	})
}

func runTradeExport(cmd *cobra.Command, args []string) error {
	filter, err := listFilter()
	if err != nil {
		return err
	}
	return withLedger(func(ctx context.Context, _ *app, _ *journal.Ledger, s *journal.SQLite) error {
		recs, err := s.ListTrades(ctx, filter)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		if exportOut == "" {
			return journal.WriteCSV(cmd.OutOrStdout(), recs)
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		if err := journal.WriteCSV(f, recs); err != nil {
			f.Close()
			return err
		}
		logger.Info("trades exported", zap.Int("count", len(recs)), zap.String("path", exportOut))
		return f.Close()
	})
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	return withLedger(func(ctx context.Context, _ *app, _ *journal.Ledger, s *journal.SQLite) error {
		return s.DeleteTrade(ctx, args[0])
	})
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
