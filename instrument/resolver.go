// instrument/resolver.go
package instrument

import (
	"sort"
	"strings"
)

// Resolver maps symbols to Specs and snapshot rates. It is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	t Tables
}

// NewResolver copies t; later changes to t's maps are not observed.
// Specs that fail validation are dropped, so their symbols resolve to the
// defaults, and invalid defaults are replaced by the built-in ones.
func NewResolver(t Tables) *Resolver {
	c := t.clone()
	for sym, s := range c.Specs {
		if s.validate() != nil {
			delete(c.Specs, sym)
		}
	}
	if c.DefaultForex.validate() != nil {
		c.DefaultForex = forex("", 0.0001)
	}
	if c.DefaultJPY.validate() != nil {
		c.DefaultJPY = forex("", 0.01)
	}
	return &Resolver{t: c}
}

// Default returns a Resolver over DefaultTables.
func Default() *Resolver {
	return NewResolver(DefaultTables())
}

// Spec resolves symbol to its Spec. Unknown symbols get the default forex
// spec, or the 0.01 pip variant when the symbol mentions JPY.
func (r *Resolver) Spec(symbol string) Spec {
	sym := Normalize(symbol)
	if s, ok := r.t.Specs[sym]; ok {
		return s
	}
	def := r.t.DefaultForex
	if strings.Contains(sym, "JPY") {
		def = r.t.DefaultJPY
	}
	def.Symbol = sym
	return def
}

// Known reports whether symbol has an explicit Spec.
func (r *Resolver) Known(symbol string) bool {
	_, ok := r.t.Specs[Normalize(symbol)]
	return ok
}

// PairType classifies symbol. Forex symbols ending in USD are direct,
// starting with USD indirect, anything else cross.
func (r *Resolver) PairType(symbol string) PairType {
	sym := Normalize(symbol)
	spec := r.Spec(sym)
	if spec.AssetClass != Forex {
		return PairType(spec.AssetClass)
	}
	switch {
	case strings.HasSuffix(sym, "USD"):
		return Direct
	case strings.HasPrefix(sym, "USD"):
		return Indirect
	default:
		return Cross
	}
}

// Rate looks symbol up in the rate table.
func (r *Resolver) Rate(symbol string) (float64, bool) {
	v, ok := r.t.Rates[Normalize(symbol)]
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// ExchangeRate is Rate with a neutral 1.0 on a miss.
func (r *Resolver) ExchangeRate(symbol string) float64 {
	if v, ok := r.Rate(symbol); ok {
		return v
	}
	return 1.0
}

// CrossFallback returns the approximate USD pip value for a quote currency,
// or LastResortPipValue.
func (r *Resolver) CrossFallback(quote string) float64 {
	if v, ok := r.t.CrossFallback[Normalize(quote)]; ok {
		return v
	}
	return LastResortPipValue
}

// Symbols lists the symbols with explicit Specs, sorted.
func (r *Resolver) Symbols() []string {
	out := make([]string, 0, len(r.t.Specs))
	for k := range r.t.Specs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
