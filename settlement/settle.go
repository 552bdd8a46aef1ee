// settlement/settle.go
package settlement

import (
	"math"

	"github.com/rustyeddy/pipval/instrument"
	"github.com/rustyeddy/pipval/valuation"
)

// Valuer is the part of valuation.Engine settlement needs.
type Valuer interface {
	Resolver() *instrument.Resolver
	RiskAmount(symbol string, lotSize, entryPrice, stopPrice float64) float64
	PotentialProfit(symbol string, lotSize, entryPrice, targetPrice float64) float64
}

var _ Valuer = (*valuation.Engine)(nil)

// Settler derives realized P&L for trades.
type Settler struct {
	v Valuer
}

func New(v Valuer) *Settler {
	return &Settler{v: v}
}

// Result breaks a settlement down. Everything is zero for trades that are
// not closed with an exit price.
type Result struct {
	Lots  float64
	Gross float64
	Fees  float64 // fees + commission
	Net   float64
}

// Settle computes the realized result of t. Quantity is turned into lots
// with the instrument's contract size, so 100 oz of XAUUSD is one lot and
// 100,000 EURUSD is one lot.
func (s *Settler) Settle(t Trade) Result {
	if t.Status != Closed || t.ExitPrice == nil || t.Symbol == "" {
		return Result{}
	}

	spec := s.v.Resolver().Spec(t.Symbol)
	lots := t.Quantity / spec.ContractSize
	entry, exit := t.EntryPrice, *t.ExitPrice

	var gross float64
	switch {
	case t.Side.IsLong() && exit > entry:
		gross = s.v.PotentialProfit(t.Symbol, lots, entry, exit)
	case t.Side.IsLong():
		gross = -s.v.RiskAmount(t.Symbol, lots, entry, exit)
	case exit < entry:
		gross = s.v.PotentialProfit(t.Symbol, lots, exit, entry)
	default:
		gross = -s.v.RiskAmount(t.Symbol, lots, exit, entry)
	}
	if gross == 0 {
		gross = 0 // drop -0
	}

	fees := t.Fees + t.Commission
	return Result{
		Lots:  lots,
		Gross: gross,
		Fees:  fees,
		Net:   gross - fees,
	}
}

// ProfitLoss is Settle(t).Net.
func (s *Settler) ProfitLoss(t Trade) float64 {
	return s.Settle(t).Net
}

// Evaluation holds the derived fields stored alongside a trade on every
// create and update.
type Evaluation struct {
	ProfitLoss      float64
	RiskRewardRatio *float64
}

func (s *Settler) Evaluate(t Trade) Evaluation {
	return Evaluation{
		ProfitLoss:      s.ProfitLoss(t),
		RiskRewardRatio: RiskRewardRatio(t.EntryPrice, t.StopLoss, t.TakeProfit),
	}
}

// RiskRewardRatio is |takeProfit-entry| / |entry-stopLoss|, or nil when
// either level is missing or the stop sits on the entry.
func RiskRewardRatio(entry float64, stopLoss, takeProfit *float64) *float64 {
	if stopLoss == nil || takeProfit == nil {
		return nil
	}
	risk := math.Abs(entry - *stopLoss)
	if risk == 0 {
		return nil
	}
	rr := math.Abs(*takeProfit-entry) / risk
	return &rr
}
