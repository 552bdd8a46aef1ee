// instrument/load.go
package instrument

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a reference data override.
//
//	specs:
//	  - symbol: XAUUSD
//	    asset_class: metal
//	    contract_size: 100
//	    pip_size: 0.01
//	rates:
//	  USDJPY: 151.20
//	cross_fallback:
//	  CHF: 11.30
type File struct {
	Specs         []fileSpec         `yaml:"specs"`
	Rates         map[string]float64 `yaml:"rates"`
	CrossFallback map[string]float64 `yaml:"cross_fallback"`
}

type fileSpec struct {
	Symbol       string  `yaml:"symbol"`
	AssetClass   string  `yaml:"asset_class"`
	ContractSize float64 `yaml:"contract_size"`
	PipSize      float64 `yaml:"pip_size"`
	BaseValue    float64 `yaml:"base_value"`
}

// Merge applies f over base and returns the result. base is not modified.
func (f File) Merge(base Tables) (Tables, error) {
	out := base.clone()
	for _, fs := range f.Specs {
		sym := Normalize(fs.Symbol)
		if sym == "" {
			return Tables{}, fmt.Errorf("spec with empty symbol")
		}
		class, err := ParseAssetClass(fs.AssetClass)
		if err != nil {
			return Tables{}, fmt.Errorf("%s: %w", sym, err)
		}
		s := Spec{
			Symbol:       sym,
			AssetClass:   class,
			ContractSize: fs.ContractSize,
			PipSize:      fs.PipSize,
			BaseValue:    fs.BaseValue,
		}
		if err := s.validate(); err != nil {
			return Tables{}, err
		}
		out.Specs[sym] = s
	}
	for k, v := range f.Rates {
		if v <= 0 {
			return Tables{}, fmt.Errorf("rate %s must be positive", k)
		}
		out.Rates[Normalize(k)] = v
	}
	for k, v := range f.CrossFallback {
		if v <= 0 {
			return Tables{}, fmt.Errorf("cross_fallback %s must be positive", k)
		}
		out.CrossFallback[Normalize(k)] = v
	}
	return out, nil
}

// LoadTables reads a YAML reference data file and merges it over
// DefaultTables.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read reference data: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Tables{}, fmt.Errorf("parse reference data: %w", err)
	}
	t, err := f.Merge(DefaultTables())
	if err != nil {
		return Tables{}, fmt.Errorf("invalid reference data: %w", err)
	}
	return t, nil
}
