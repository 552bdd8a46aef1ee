// Package metrics exposes Prometheus instruments for settlements and risk
// checks.
//
//   - pipval_trades_total{status}              trades saved, by status
//   - pipval_settlements_total{result}         closed trades by win|loss|flat
//   - pipval_realized_pnl                      sum of net P&L of closed trades
//   - pipval_risk_checks_total{valid}          IsWithinRiskLimit outcomes
//   - pipval_last_risk_pct                     ActualRisk of the last check
//
// The CLI is short lived, so instead of serving /metrics the registry is
// written to a node_exporter textfile.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rustyeddy/pipval/journal"
	"github.com/rustyeddy/pipval/settlement"
	"github.com/rustyeddy/pipval/valuation"
)

type Recorder struct {
	reg *prometheus.Registry

	trades      *prometheus.CounterVec
	settlements *prometheus.CounterVec
	realized    prometheus.Gauge
	riskChecks  *prometheus.CounterVec
	lastRisk    prometheus.Gauge
}

var _ journal.Observer = (*Recorder)(nil)

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipval_trades_total",
				Help: "Trades written to the journal, by status",
			},
			[]string{"status"},
		),
		settlements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipval_settlements_total",
				Help: "Closed trades by result",
			},
			[]string{"result"},
		),
		realized: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pipval_realized_pnl",
				Help: "Net realized P&L of trades closed by this process",
			},
		),
		riskChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipval_risk_checks_total",
				Help: "Risk limit checks by outcome",
			},
			[]string{"valid"},
		),
		lastRisk: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pipval_last_risk_pct",
				Help: "Account risk percentage of the most recent check",
			},
		),
	}
	r.reg.MustRegister(r.trades, r.settlements, r.realized, r.riskChecks, r.lastRisk)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveTrade counts a saved record and, once closed, its result.
func (r *Recorder) ObserveTrade(rec journal.TradeRecord) {
	r.trades.WithLabelValues(string(rec.Status)).Inc()
	if rec.Status != settlement.Closed {
		return
	}
	r.settlements.WithLabelValues(result(rec.ProfitLoss)).Inc()
	r.realized.Add(rec.ProfitLoss)
}

func (r *Recorder) ObserveRiskCheck(c valuation.RiskCheck) {
	r.riskChecks.WithLabelValues(strconv.FormatBool(c.Valid)).Inc()
	r.lastRisk.Set(c.ActualRisk)
}

// WriteTextfile writes the current values in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

func result(pl float64) string {
	switch {
	case pl > 0:
		return "win"
	case pl < 0:
		return "loss"
	default:
		return "flat"
	}
}
