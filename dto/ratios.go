package dto

import (
	"encoding/json"
	"fmt"
)

// Category groups related ratios in the output.
type Category string

const (
	CategoryLiquidity        Category = "liquidity_ratios"
	CategoryProfitability    Category = "profitability_ratios"
	CategorySolvency         Category = "solvency_ratios"
	CategoryCapitalStructure Category = "capital_structure_ratios"
	CategoryActivity         Category = "activity_ratios"
	CategoryEfficiency       Category = "efficiency_ratios"
	CategoryDuPont           Category = "dupont_analysis"
	CategoryWorkingCapital   Category = "working_capital_ratios"
	CategoryValuation        Category = "valuation_ratios"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryLiquidity,
	CategoryProfitability,
	CategorySolvency,
	CategoryCapitalStructure,
	CategoryActivity,
	CategoryEfficiency,
	CategoryDuPont,
	CategoryWorkingCapital,
	CategoryValuation,
}

const (
	interpretationKey   = "interpretation"
	extractedNumbersKey = "_extracted_numbers"
)

// RatioSet is the terminal output of the ratio engine.
//
// Ratios flagged as percentages are stored ×100 until Normalize is called,
// after which every value is a plain fraction. Normalize only converts once.
type RatioSet struct {
	Categories       map[Category]map[string]*float64
	Interpretation   map[string]string
	ExtractedNumbers FinancialFieldSet

	percentages map[string]bool
	normalized  bool
}

// NewRatioSet returns an empty set carrying fields as its audit sidecar.
func NewRatioSet(fields FinancialFieldSet) *RatioSet {
	rs := &RatioSet{
		Categories:       make(map[Category]map[string]*float64, len(Categories)),
		Interpretation:   make(map[string]string),
		ExtractedNumbers: fields,
		percentages:      make(map[string]bool),
	}
	for _, c := range Categories {
		rs.Categories[c] = make(map[string]*float64)
	}
	return rs
}

// Set stores a ratio. A percentage value set after normalization is
// converted immediately so the set stays uniform.
func (rs *RatioSet) Set(cat Category, name string, v *float64, percent bool) {
	if rs.Categories[cat] == nil {
		rs.Categories[cat] = make(map[string]*float64)
	}
	if percent {
		rs.percentages[percentKey(cat, name)] = true
		if rs.normalized && v != nil {
			f := *v / 100
			v = &f
		}
	}
	rs.Categories[cat][name] = v
}

// Get returns a ratio value and whether its key is present.
func (rs *RatioSet) Get(cat Category, name string) (*float64, bool) {
	v, ok := rs.Categories[cat][name]
	return v, ok
}

// Ratio finds name in the first category that carries it.
func (rs *RatioSet) Ratio(name string) *float64 {
	for _, c := range Categories {
		if v, ok := rs.Categories[c][name]; ok {
			return v
		}
	}
	return nil
}

// Normalize divides percentage ratios by 100. Calling it again is a no-op.
func (rs *RatioSet) Normalize() {
	if rs.normalized {
		return
	}
	for cat, ratios := range rs.Categories {
		for name, v := range ratios {
			if v == nil || !rs.percentages[percentKey(cat, name)] {
				continue
			}
			f := *v / 100
			ratios[name] = &f
		}
	}
	rs.normalized = true
}

// IsPercentage reports whether the ratio is a percentage-flavoured fraction.
func (rs *RatioSet) IsPercentage(cat Category, name string) bool {
	return rs.percentages[percentKey(cat, name)]
}

func (rs *RatioSet) Normalized() bool {
	return rs.normalized
}

// Count returns the number of non-nil ratios in cat.
func (rs *RatioSet) Count(cat Category) int {
	n := 0
	for _, v := range rs.Categories[cat] {
		if v != nil {
			n++
		}
	}
	return n
}

func percentKey(cat Category, name string) string {
	return string(cat) + "/" + name
}

func (rs *RatioSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(rs.Categories)+2)
	for cat, ratios := range rs.Categories {
		out[string(cat)] = ratios
	}
	out[interpretationKey] = rs.Interpretation
	out[extractedNumbersKey] = rs.ExtractedNumbers
	return json.Marshal(out)
}

// UnmarshalJSON restores a stored set. Stored sets are always normalized.
func (rs *RatioSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fresh := NewRatioSet(NewFieldSet(nil))
	for key, msg := range raw {
		switch key {
		case interpretationKey:
			if err := json.Unmarshal(msg, &fresh.Interpretation); err != nil {
				return fmt.Errorf("interpretation: %w", err)
			}
		case extractedNumbersKey:
			if err := json.Unmarshal(msg, &fresh.ExtractedNumbers); err != nil {
				return fmt.Errorf("extracted numbers: %w", err)
			}
		default:
			ratios := make(map[string]*float64)
			if err := json.Unmarshal(msg, &ratios); err != nil {
				return fmt.Errorf("category %s: %w", key, err)
			}
			fresh.Categories[Category(key)] = ratios
		}
	}
	fresh.normalized = true
	*rs = *fresh
	return nil
}

// Direction says which way a ratio improves.
type Direction string

const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
)

// Tier is one step of an interpretation scale.
type Tier struct {
	Bound float64 `mapstructure:"bound" yaml:"bound" json:"bound"`
	Label string  `mapstructure:"label" yaml:"label" json:"label"`
}

// ThresholdRule maps a ratio value to a qualitative label. Tiers are
// checked in order; the first satisfied bound wins.
type ThresholdRule struct {
	Direction Direction `mapstructure:"direction" yaml:"direction" json:"direction"`
	Tiers     []Tier    `mapstructure:"tiers" yaml:"tiers" json:"tiers"`
	Fallback  string    `mapstructure:"fallback" yaml:"fallback" json:"fallback"`
}

// Label returns the tier label for v.
func (r ThresholdRule) Label(v float64) string {
	for _, t := range r.Tiers {
		if r.Direction == LowerIsBetter {
			if v <= t.Bound {
				return t.Label
			}
			continue
		}
		if v >= t.Bound {
			return t.Label
		}
	}
	return r.Fallback
}
