// valuation/engine.go
package valuation

import (
	"math"

	"github.com/rustyeddy/pipval/instrument"
	"github.com/shopspring/decimal"
)

// MetalPipValue is the flat per-pip figure PipValue reports for metals.
// It is a display value; RiskAmount and PotentialProfit price metals
// directly from contract size instead.
const MetalPipValue = 1.0

// Engine turns price distances into money. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	r        *instrument.Resolver
	currency string
}

type Option func(*Engine)

// WithAccountCurrency sets the currency monetary results are reported in.
// Conversion from USD uses the resolver's rate table only.
func WithAccountCurrency(ccy string) Option {
	return func(e *Engine) {
		if c := instrument.Normalize(ccy); c != "" {
			e.currency = c
		}
	}
}

// New builds an Engine over r. A nil r uses instrument.Default().
func New(r *instrument.Resolver, opts ...Option) *Engine {
	if r == nil {
		r = instrument.Default()
	}
	e := &Engine{r: r, currency: "USD"}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Resolver() *instrument.Resolver { return e.r }

func (e *Engine) AccountCurrency() string { return e.currency }

// PipValue is the account currency value of one pip on one standard lot.
func (e *Engine) PipValue(symbol string) float64 {
	return e.PipValueIn(symbol, e.currency)
}

// PipValueIn is PipValue reported in accountCurrency.
func (e *Engine) PipValueIn(symbol, accountCurrency string) float64 {
	return e.fromUSD(e.pipValueUSD(symbol), accountCurrency)
}

func (e *Engine) pipValueUSD(symbol string) float64 {
	spec := e.r.Spec(symbol)
	switch spec.AssetClass {
	case instrument.Metal:
		return MetalPipValue
	case instrument.Crypto:
		return spec.PipSize * spec.ContractSize
	case instrument.Commodity, instrument.Index:
		return spec.BaseValue
	}

	switch e.r.PairType(symbol) {
	case instrument.Direct:
		return spec.PipSize * spec.ContractSize
	case instrument.Indirect:
		return spec.PipSize / e.r.ExchangeRate(symbol) * spec.ContractSize
	default:
		return e.crossPipValue(symbol, spec)
	}
}

// crossPipValue prices a pip quoted in a non-USD currency through that
// currency's USD rate: QUOTEUSD, else inverted USDQUOTE, else the fallback
// table.
func (e *Engine) crossPipValue(symbol string, spec instrument.Spec) float64 {
	_, quote, ok := instrument.Currencies(symbol)
	if !ok {
		return instrument.LastResortPipValue
	}
	if rate, ok := e.r.Rate(quote + "USD"); ok {
		return spec.PipSize * spec.ContractSize * rate
	}
	if rate, ok := e.r.Rate("USD" + quote); ok {
		return spec.PipSize * spec.ContractSize / rate
	}
	return e.r.CrossFallback(quote)
}

// fromUSD converts a USD amount to ccy via USDccy or ccyUSD. Unknown
// currencies are left in USD.
func (e *Engine) fromUSD(amount float64, ccy string) float64 {
	ccy = instrument.Normalize(ccy)
	if ccy == "" || ccy == "USD" {
		return amount
	}
	if rate, ok := e.r.Rate("USD" + ccy); ok {
		return amount * rate
	}
	if rate, ok := e.r.Rate(ccy + "USD"); ok {
		return amount / rate
	}
	return amount
}

// PipsDistance converts a price distance into pips.
func PipsDistance(spec instrument.Spec, priceDistance float64) float64 {
	return priceDistance / spec.PipSize
}

// RiskAmount is the money lost on lotSize lots if price moves from entry
// to stop. Non-positive inputs give 0.
func (e *Engine) RiskAmount(symbol string, lotSize, entryPrice, stopPrice float64) float64 {
	return e.moveValue(symbol, lotSize, entryPrice, stopPrice)
}

// PotentialProfit is the money made on lotSize lots if price moves from
// entry to target. Non-positive inputs give 0.
func (e *Engine) PotentialProfit(symbol string, lotSize, entryPrice, targetPrice float64) float64 {
	return e.moveValue(symbol, lotSize, entryPrice, targetPrice)
}

func (e *Engine) moveValue(symbol string, lots, from, to float64) float64 {
	if lots <= 0 || from <= 0 || to <= 0 {
		return 0
	}
	v := lots * e.perLotValue(symbol, math.Abs(from-to))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// perLotValue is the account currency value of a price move of distance
// on one standard lot. Metals are priced directly off the contract size.
func (e *Engine) perLotValue(symbol string, distance float64) float64 {
	spec := e.r.Spec(symbol)
	if spec.AssetClass == instrument.Metal {
		return e.fromUSD(distance*spec.ContractSize, e.currency)
	}
	return PipsDistance(spec, distance) * e.PipValue(symbol)
}

// SuggestedLotSize sizes a position so that hitting stop loses
// riskPercentage percent of accountBalance. The result is rounded to two
// decimals; invalid inputs or a zero stop distance give 0.
func (e *Engine) SuggestedLotSize(symbol string, entryPrice, stopPrice, accountBalance, riskPercentage float64) float64 {
	if entryPrice <= 0 || stopPrice <= 0 || accountBalance <= 0 || riskPercentage <= 0 {
		return 0
	}
	distance := math.Abs(entryPrice - stopPrice)
	if distance == 0 {
		return 0
	}
	perLot := e.perLotValue(symbol, distance)
	if perLot <= 0 || math.IsNaN(perLot) || math.IsInf(perLot, 0) {
		return 0
	}
	target := accountBalance * riskPercentage / 100
	return Round2(target / perLot)
}

// RiskPercentageFromLotSize is the share of accountBalance, in percent,
// at risk on lotSize lots. Rounded to two decimals.
func (e *Engine) RiskPercentageFromLotSize(symbol string, lotSize, entryPrice, stopPrice, accountBalance float64) float64 {
	if accountBalance <= 0 {
		return 0
	}
	return Round2(e.RiskAmount(symbol, lotSize, entryPrice, stopPrice) / accountBalance * 100)
}

// RiskCheck is the outcome of IsWithinRiskLimit. Both figures are
// percentages of the account balance.
type RiskCheck struct {
	Valid      bool
	ActualRisk float64
	MaxRisk    float64
}

func (e *Engine) IsWithinRiskLimit(symbol string, lotSize, entryPrice, stopPrice, accountBalance, maxRiskPercentage float64) RiskCheck {
	actual := e.RiskPercentageFromLotSize(symbol, lotSize, entryPrice, stopPrice, accountBalance)
	return RiskCheck{
		Valid:      actual <= maxRiskPercentage,
		ActualRisk: actual,
		MaxRisk:    maxRiskPercentage,
	}
}

// Round2 rounds half away from zero to two decimals. NaN and infinities
// become 0.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
