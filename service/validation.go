package service

import (
	"encoding/json"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/Aashish23092/ocr-financial-ratios/utils"
)

// MinPlausibleValues is how many distinct positive amounts an extraction
// needs before it is treated as real financial data.
const MinPlausibleValues = 3

// IsPlausible reports whether v holds at least MinPlausibleValues distinct
// positive amounts anywhere in its structure.
func IsPlausible(v interface{}) bool {
	return IsPlausibleWithMin(v, MinPlausibleValues)
}

func IsPlausibleWithMin(v interface{}, threshold int) bool {
	return CountPositiveValues(v) >= threshold
}

// CountPositiveValues walks maps, slices and statement types and counts the
// distinct positive numbers found.
func CountPositiveValues(v interface{}) int {
	seen := make(map[float64]struct{})
	collectPositive(v, seen)
	return len(seen)
}

func collectPositive(v interface{}, seen map[float64]struct{}) {
	add := func(f float64) {
		if f > 0 {
			seen[f] = struct{}{}
		}
	}

	switch x := v.(type) {
	case nil:
	case float64:
		add(x)
	case float32:
		add(float64(x))
	case int:
		add(float64(x))
	case int64:
		add(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			add(f)
		}
	case string:
		if f, ok := utils.ParseNumber(x); ok {
			add(f)
		}
	case *float64:
		if x != nil {
			add(*x)
		}
	case []float64:
		for _, f := range x {
			add(f)
		}
	case []interface{}:
		for _, item := range x {
			collectPositive(item, seen)
		}
	case map[string]interface{}:
		for _, item := range x {
			collectPositive(item, seen)
		}
	case map[string]float64:
		for _, f := range x {
			add(f)
		}
	case map[string]*float64:
		for _, f := range x {
			collectPositive(f, seen)
		}
	case map[dto.FieldName]float64:
		for _, f := range x {
			add(f)
		}
	case dto.FinancialFieldSet:
		collectPositive(x.Values(), seen)
	case *dto.FinancialFieldSet:
		if x != nil {
			collectPositive(x.Values(), seen)
		}
	case dto.NormalizedRow:
		collectPositive(x.Values, seen)
	case []dto.NormalizedRow:
		for _, row := range x {
			collectPositive(row.Values, seen)
		}
	case dto.RowSource:
		collectPositive([]dto.NormalizedRow(x), seen)
	case dto.TextSource:
		for _, f := range utils.ExtractNumbers(string(x)) {
			add(f)
		}
	case dto.StructuredStatement:
		collectPositive(x.Fields, seen)
	case *dto.StructuredStatement:
		if x != nil {
			collectPositive(x.Fields, seen)
		}
	case *dto.Extraction:
		if x != nil {
			collectPositive(x.Fields, seen)
		}
	}
}
