// instrument/tables.go
package instrument

// Tables is the reference data a Resolver is built from. Keys are
// normalized symbols ("EURUSD") or, for CrossFallback, quote currencies.
type Tables struct {
	Specs map[string]Spec

	// Rates is a snapshot of pair prices, not a live feed.
	Rates map[string]float64

	// CrossFallback holds approximate USD pip values per standard lot, keyed
	// by quote currency, used when a cross pair's quote currency has no USD
	// rate in Rates.
	CrossFallback map[string]float64

	// DefaultForex and DefaultJPY are returned for symbols with no Spec.
	DefaultForex Spec
	DefaultJPY   Spec
}

// LastResortPipValue is the cross pair pip value used when neither Rates
// nor CrossFallback know the quote currency.
const LastResortPipValue = 10.0

// StandardLot is the forex contract size.
const StandardLot = 100_000.0

func forex(symbol string, pip float64) Spec {
	return Spec{Symbol: symbol, AssetClass: Forex, ContractSize: StandardLot, PipSize: pip, BaseValue: 10}
}

// DefaultTables returns a fresh copy of the compiled-in reference data.
func DefaultTables() Tables {
	specs := map[string]Spec{}
	for _, s := range []Spec{
		forex("EURUSD", 0.0001),
		forex("GBPUSD", 0.0001),
		forex("AUDUSD", 0.0001),
		forex("NZDUSD", 0.0001),
		forex("USDCAD", 0.0001),
		forex("USDCHF", 0.0001),
		forex("USDJPY", 0.01),
		forex("EURGBP", 0.0001),
		forex("EURCHF", 0.0001),
		forex("EURAUD", 0.0001),
		forex("GBPCHF", 0.0001),
		forex("AUDNZD", 0.0001),
		forex("EURJPY", 0.01),
		forex("GBPJPY", 0.01),
		forex("AUDJPY", 0.01),
		forex("CADJPY", 0.01),

		{Symbol: "XAUUSD", AssetClass: Metal, ContractSize: 100, PipSize: 0.01, BaseValue: 1},
		{Symbol: "XAGUSD", AssetClass: Metal, ContractSize: 5000, PipSize: 0.001, BaseValue: 5},
		{Symbol: "XPTUSD", AssetClass: Metal, ContractSize: 100, PipSize: 0.01, BaseValue: 1},

		{Symbol: "BTCUSD", AssetClass: Crypto, ContractSize: 1, PipSize: 0.01, BaseValue: 0.01},
		{Symbol: "ETHUSD", AssetClass: Crypto, ContractSize: 1, PipSize: 0.01, BaseValue: 0.01},
		{Symbol: "SOLUSD", AssetClass: Crypto, ContractSize: 1, PipSize: 0.001, BaseValue: 0.001},

		{Symbol: "USOIL", AssetClass: Commodity, ContractSize: 1000, PipSize: 0.01, BaseValue: 10},
		{Symbol: "UKOIL", AssetClass: Commodity, ContractSize: 1000, PipSize: 0.01, BaseValue: 10},
		{Symbol: "NATGAS", AssetClass: Commodity, ContractSize: 10000, PipSize: 0.001, BaseValue: 10},

		{Symbol: "US30", AssetClass: Index, ContractSize: 1, PipSize: 1, BaseValue: 1},
		{Symbol: "SPX500", AssetClass: Index, ContractSize: 1, PipSize: 0.1, BaseValue: 0.1},
		{Symbol: "NAS100", AssetClass: Index, ContractSize: 1, PipSize: 0.1, BaseValue: 0.1},
		{Symbol: "GER40", AssetClass: Index, ContractSize: 1, PipSize: 0.1, BaseValue: 0.1},
	} {
		specs[s.Symbol] = s
	}

	return Tables{
		Specs: specs,
		Rates: map[string]float64{
			"EURUSD": 1.0850,
			"GBPUSD": 1.2700,
			"AUDUSD": 0.6550,
			"NZDUSD": 0.6000,
			"USDCAD": 1.3600,
			"USDCHF": 0.8800,
			"USDJPY": 149.50,
			"EURGBP": 0.8550,
			"EURCHF": 0.9550,
			"EURAUD": 1.6550,
			"GBPCHF": 1.1180,
			"AUDNZD": 1.0900,
			"EURJPY": 162.20,
			"GBPJPY": 189.90,
			"AUDJPY": 97.90,
			"CADJPY": 109.90,
			"XAUUSD": 2350.00,
			"XAGUSD": 28.50,
			"BTCUSD": 65000.00,
			"ETHUSD": 3400.00,
		},
		CrossFallback: map[string]float64{
			"EUR": 10.85,
			"GBP": 12.70,
			"JPY": 6.70,
		},
		DefaultForex: forex("", 0.0001),
		DefaultJPY:   forex("", 0.01),
	}
}

// clone deep-copies the maps so a Resolver never shares state with its
// caller.
func (t Tables) clone() Tables {
	out := t
	out.Specs = make(map[string]Spec, len(t.Specs))
	for k, v := range t.Specs {
		out.Specs[Normalize(k)] = v
	}
	out.Rates = make(map[string]float64, len(t.Rates))
	for k, v := range t.Rates {
		out.Rates[Normalize(k)] = v
	}
	out.CrossFallback = make(map[string]float64, len(t.CrossFallback))
	for k, v := range t.CrossFallback {
		out.CrossFallback[Normalize(k)] = v
	}
	return out
}
