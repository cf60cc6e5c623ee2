package service

import (
	"github.com/Aashish23092/ocr-financial-ratios/dto"
)

// RatioEngine computes the categorized ratio set for one field set.
// It is immutable after construction and safe for concurrent use.
type RatioEngine struct {
	thresholds map[string]dto.ThresholdRule
}

// NewRatioEngine copies rules; nil means DefaultThresholds.
func NewRatioEngine(rules map[string]dto.ThresholdRule) *RatioEngine {
	if rules == nil {
		rules = DefaultThresholds()
	}
	return &RatioEngine{thresholds: MergeThresholds(nil, rules)}
}

var defaultEngine = NewRatioEngine(nil)

// ComputeRatios runs the default engine.
func ComputeRatios(fields dto.FinancialFieldSet) *dto.RatioSet {
	return defaultEngine.Compute(fields)
}

// Compute derives every ratio whose inputs were at least partly extracted.
// The returned set is normalized: percentage ratios are plain fractions.
func (e *RatioEngine) Compute(fields dto.FinancialFieldSet) *dto.RatioSet {
	rs := dto.NewRatioSet(fields)
	for _, def := range ratioDefinitions {
		if !anyPresent(fields, def.deps) {
			continue
		}
		v := def.compute(fields)
		if def.percent {
			v = percent(v)
		}
		rs.Set(def.category, def.name, v, def.percent)
	}
	rs.Normalize()
	e.interpret(rs)
	return rs
}

func (e *RatioEngine) interpret(rs *dto.RatioSet) {
	for name, rule := range e.thresholds {
		v := rs.Ratio(name)
		if v == nil {
			continue
		}
		rs.Interpretation[name] = rule.Label(*v)
	}
}

// Thresholds returns a copy of the engine's interpretation table.
func (e *RatioEngine) Thresholds() map[string]dto.ThresholdRule {
	return MergeThresholds(nil, e.thresholds)
}

func anyPresent(fields dto.FinancialFieldSet, names []dto.FieldName) bool {
	for _, n := range names {
		if fields.Has(n) {
			return true
		}
	}
	return false
}
