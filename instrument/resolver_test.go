package instrument

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"EURUSD", "EURUSD"},
		{"eur/usd", "EURUSD"},
		{"EUR_USD", "EURUSD"},
		{" eur-usd ", "EURUSD"},
		{"xau.usd", "XAUUSD"},
		{"us30", "US30"},
		{"", ""},
		{" / ", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestResolverSpec(t *testing.T) {
	t.Parallel()

	r := Default()

	tests := []struct {
		name     string
		symbol   string
		class    AssetClass
		pip      float64
		contract float64
		known    bool
	}{
		{"known forex", "EUR/USD", Forex, 0.0001, 100_000, true},
		{"known jpy", "USD/JPY", Forex, 0.01, 100_000, true},
		{"lowercase separators", " gbp_usd ", Forex, 0.0001, 100_000, true},
		{"gold", "XAU/USD", Metal, 0.01, 100, true},
		{"silver", "xagusd", Metal, 0.001, 5000, true},
		{"bitcoin", "BTC/USD", Crypto, 0.01, 1, true},
		{"oil", "USOIL", Commodity, 0.01, 1000, true},
		{"index", "US30", Index, 1, 1, true},
		{"unknown forex", "ZZZ/USD", Forex, 0.0001, 100_000, false},
		{"unknown jpy", "ZZZ/JPY", Forex, 0.01, 100_000, false},
		{"garbage", "!!!", Forex, 0.0001, 100_000, false},
		{"empty", "", Forex, 0.0001, 100_000, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := r.Spec(tt.symbol)
			assert.Equal(t, tt.class, s.AssetClass)
			assert.InDelta(t, tt.pip, s.PipSize, 1e-12)
			assert.InDelta(t, tt.contract, s.ContractSize, 1e-9)
			assert.Equal(t, Normalize(tt.symbol), s.Symbol)
			assert.Equal(t, tt.known, r.Known(tt.symbol))
		})
	}
}

func TestResolverPairType(t *testing.T) {
	t.Parallel()

	r := Default()

	tests := []struct {
		symbol string
		want   PairType
	}{
		{"EUR/USD", Direct},
		{"ZZZUSD", Direct},
		{"USD/JPY", Indirect},
		{"usd_chf", Indirect},
		{"EUR/GBP", Cross},
		{"GBP/JPY", Cross},
		{"ZZZ/JPY", Cross},
		{"XAU/USD", MetalPair},
		{"BTC/USD", CryptoPair},
		{"USOIL", CommodityPair},
		{"NAS100", IndexPair},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.symbol, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.PairType(tt.symbol))
		})
	}
}

func TestResolverExchangeRate(t *testing.T) {
	t.Parallel()

	r := Default()
	assert.InDelta(t, 149.50, r.ExchangeRate("USD/JPY"), 1e-9)
	assert.InDelta(t, 1.085, r.ExchangeRate("eur_usd"), 1e-9)
	assert.Equal(t, 1.0, r.ExchangeRate("ZZZ/USD"))
	assert.Equal(t, 1.0, r.ExchangeRate(""))

	_, ok := r.Rate("ZZZUSD")
	assert.False(t, ok)
}

func TestResolverCrossFallback(t *testing.T) {
	t.Parallel()

	r := Default()
	assert.InDelta(t, 12.70, r.CrossFallback("GBP"), 1e-9)
	assert.InDelta(t, 6.70, r.CrossFallback("jpy"), 1e-9)
	assert.Equal(t, LastResortPipValue, r.CrossFallback("SEK"))
}

func TestNewResolverCopiesTables(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	r := NewResolver(tables)

	tables.Rates["USDJPY"] = 1
	tables.Specs["EURUSD"] = Spec{Symbol: "EURUSD", AssetClass: Index, ContractSize: 1, PipSize: 1}

	assert.InDelta(t, 149.50, r.ExchangeRate("USDJPY"), 1e-9)
	assert.Equal(t, Forex, r.Spec("EURUSD").AssetClass)
}

func TestNewResolverNormalizesKeys(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	tables.Rates = map[string]float64{"usd/sek": 10.5}
	r := NewResolver(tables)

	assert.InDelta(t, 10.5, r.ExchangeRate("USDSEK"), 1e-9)
}

func TestNewResolverDropsInvalidSpecs(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	tables.Specs["EURUSD"] = Spec{Symbol: "EURUSD", AssetClass: Forex, ContractSize: StandardLot}
	tables.Specs["US30"] = Spec{Symbol: "US30", AssetClass: Index, ContractSize: 1, PipSize: 1}
	tables.Specs["XYZ"] = Spec{Symbol: "XYZ", ContractSize: 1, PipSize: 1}
	r := NewResolver(tables)

	assert.False(t, r.Known("EURUSD"))
	assert.False(t, r.Known("US30"))
	assert.False(t, r.Known("XYZ"))
	assert.Equal(t, 0.0001, r.Spec("EURUSD").PipSize)
	assert.Equal(t, Forex, r.Spec("XYZ").AssetClass)
	assert.True(t, r.Known("GBPUSD"))
}

func TestNewResolverEmptyTables(t *testing.T) {
	t.Parallel()

	r := NewResolver(Tables{})

	eur := r.Spec("eur/usd")
	assert.Equal(t, "EURUSD", eur.Symbol)
	assert.Equal(t, Forex, eur.AssetClass)
	assert.Equal(t, 0.0001, eur.PipSize)
	assert.Equal(t, StandardLot, eur.ContractSize)
	assert.Equal(t, 0.01, r.Spec("USDJPY").PipSize)
	assert.Empty(t, r.Symbols())
}

func TestCurrencies(t *testing.T) {
	t.Parallel()

	base, quote, ok := Currencies("eur/gbp")
	assert.True(t, ok)
	assert.Equal(t, "EUR", base)
	assert.Equal(t, "GBP", quote)

	_, _, ok = Currencies("US30")
	assert.False(t, ok)
}

func TestParseAssetClass(t *testing.T) {
	t.Parallel()

	c, err := ParseAssetClass(" Metal ")
	require.NoError(t, err)
	assert.Equal(t, Metal, c)

	_, err = ParseAssetClass("bond")
	assert.Error(t, err)
}

func TestSymbolsSorted(t *testing.T) {
	t.Parallel()

	syms := Default().Symbols()
	require.NotEmpty(t, syms)
	assert.IsIncreasing(t, syms)
	assert.Contains(t, syms, "EURUSD")
}

func TestLoadTables(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ref.yaml")
	data := `
specs:
  - symbol: usd/sek
    asset_class: forex
    contract_size: 100000
    pip_size: 0.0001
  - symbol: JP225
    asset_class: index
    contract_size: 1
    pip_size: 1
    base_value: 0.0067
rates:
  USD/JPY: 151.2
cross_fallback:
  chf: 11.3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	tables, err := LoadTables(path)
	require.NoError(t, err)

	r := NewResolver(tables)
	assert.True(t, r.Known("USDSEK"))
	assert.Equal(t, Index, r.Spec("jp225").AssetClass)
	assert.InDelta(t, 151.2, r.ExchangeRate("USDJPY"), 1e-9)
	assert.InDelta(t, 1.085, r.ExchangeRate("EURUSD"), 1e-9)
	assert.InDelta(t, 11.3, r.CrossFallback("CHF"), 1e-9)
}

func TestLoadTablesRejectsBadData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"bad class", "specs:\n  - {symbol: X1, asset_class: bond, contract_size: 1, pip_size: 1}\n", "unknown asset class"},
		{"zero pip", "specs:\n  - {symbol: X1, asset_class: forex, contract_size: 1, pip_size: 0}\n", "pip_size must be positive"},
		{"index without base", "specs:\n  - {symbol: X1, asset_class: index, contract_size: 1, pip_size: 1}\n", "base_value must be positive"},
		{"empty symbol", "specs:\n  - {symbol: ' / ', asset_class: forex, contract_size: 1, pip_size: 1}\n", "empty symbol"},
		{"negative rate", "rates:\n  EURUSD: -1\n", "must be positive"},
		{"not yaml", "specs: [", "parse reference data"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "ref.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := LoadTables(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadTablesMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
