// instrument/instrument.go
package instrument

import (
	"fmt"
	"strings"
)

// AssetClass groups instruments that share a pip valuation rule.
type AssetClass string

const (
	Forex     AssetClass = "forex"
	Metal     AssetClass = "metal"
	Crypto    AssetClass = "crypto"
	Commodity AssetClass = "commodity"
	Index     AssetClass = "index"
)

// ParseAssetClass accepts any casing of a known class name.
func ParseAssetClass(s string) (AssetClass, error) {
	switch c := AssetClass(strings.ToLower(strings.TrimSpace(s))); c {
	case Forex, Metal, Crypto, Commodity, Index:
		return c, nil
	default:
		return "", fmt.Errorf("unknown asset class %q", s)
	}
}

// PairType is derived from a symbol, never stored. Non-forex instruments
// report their asset class.
type PairType string

const (
	Direct        PairType = "direct"
	Indirect      PairType = "indirect"
	Cross         PairType = "cross"
	MetalPair     PairType = PairType(Metal)
	CryptoPair    PairType = PairType(Crypto)
	CommodityPair PairType = PairType(Commodity)
	IndexPair     PairType = PairType(Index)
)

// Spec is the static description of one tradeable symbol.
type Spec struct {
	Symbol       string
	AssetClass   AssetClass
	ContractSize float64 // units per standard lot
	PipSize      float64 // price increment counted as one pip/point
	BaseValue    float64 // per-pip value for commodity and index
}

func (s Spec) validate() error {
	switch s.AssetClass {
	case Forex, Metal, Crypto, Commodity, Index:
	default:
		return fmt.Errorf("%s: unknown asset class %q", s.Symbol, s.AssetClass)
	}
	if s.PipSize <= 0 {
		return fmt.Errorf("%s: pip_size must be positive", s.Symbol)
	}
	if s.ContractSize <= 0 {
		return fmt.Errorf("%s: contract_size must be positive", s.Symbol)
	}
	if (s.AssetClass == Commodity || s.AssetClass == Index) && s.BaseValue <= 0 {
		return fmt.Errorf("%s: base_value must be positive for %s", s.Symbol, s.AssetClass)
	}
	return nil
}

// Normalize upper-cases a symbol and strips whitespace and the common
// separators, so "eur/usd", "EUR_USD" and " eur-usd " are all "EURUSD".
func Normalize(symbol string) string {
	var b strings.Builder
	b.Grow(len(symbol))
	for _, r := range strings.ToUpper(symbol) {
		switch r {
		case ' ', '\t', '\n', '\r', '/', '_', '-', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Currencies splits a normalized six letter forex symbol into base and
// quote. ok is false for anything else.
func Currencies(symbol string) (base, quote string, ok bool) {
	s := Normalize(symbol)
	if len(s) != 6 {
		return "", "", false
	}
	return s[:3], s[3:], true
}
