package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestRatioSet_NormalizeIsIdempotent(t *testing.T) {
	rs := NewRatioSet(NewFieldSet(nil))
	rs.Set(CategoryProfitability, "gross_margin", ptr(40), true)
	rs.Set(CategoryLiquidity, "current_ratio", ptr(2.5), false)
	rs.Set(CategoryLiquidity, "cash_ratio", nil, false)

	rs.Normalize()
	rs.Normalize()

	gm, ok := rs.Get(CategoryProfitability, "gross_margin")
	require.True(t, ok)
	assert.InDelta(t, 0.4, *gm, 1e-12)

	cr, _ := rs.Get(CategoryLiquidity, "current_ratio")
	assert.Equal(t, 2.5, *cr)

	cash, ok := rs.Get(CategoryLiquidity, "cash_ratio")
	assert.True(t, ok)
	assert.Nil(t, cash)

	assert.Equal(t, 1, rs.Count(CategoryLiquidity))
}

func TestRatioSet_SetAfterNormalize(t *testing.T) {
	rs := NewRatioSet(NewFieldSet(nil))
	rs.Normalize()
	rs.Set(CategoryProfitability, "net_margin", ptr(12.5), true)

	v, _ := rs.Get(CategoryProfitability, "net_margin")
	assert.InDelta(t, 0.125, *v, 1e-12)
	assert.True(t, rs.IsPercentage(CategoryProfitability, "net_margin"))
}

func TestRatioSet_JSON(t *testing.T) {
	rs := NewRatioSet(NewFieldSet(map[FieldName]float64{TotalAssets: 1000}))
	rs.Set(CategoryLiquidity, "current_ratio", ptr(2), false)
	rs.Set(CategoryLiquidity, "quick_ratio", nil, false)
	rs.Normalize()
	rs.Interpretation["current_ratio"] = "Strong"

	data, err := json.Marshal(rs)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, c := range Categories {
		assert.Contains(t, raw, string(c))
	}
	assert.Contains(t, raw, "interpretation")
	assert.Contains(t, raw, "_extracted_numbers")
	assert.JSONEq(t, `{"current_ratio": 2, "quick_ratio": null}`, string(raw["liquidity_ratios"]))

	var back RatioSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Normalized())
	assert.Equal(t, "Strong", back.Interpretation["current_ratio"])
	assert.Equal(t, 2.0, *back.Ratio("current_ratio"))
	assert.True(t, back.ExtractedNumbers.Has(TotalAssets))
}

func TestThresholdRule_Label(t *testing.T) {
	higher := ThresholdRule{
		Direction: HigherIsBetter,
		Tiers:     []Tier{{Bound: 2, Label: "Strong"}, {Bound: 1, Label: "Adequate"}},
		Fallback:  "Weak",
	}
	assert.Equal(t, "Strong", higher.Label(2.5))
	assert.Equal(t, "Adequate", higher.Label(1))
	assert.Equal(t, "Weak", higher.Label(0.5))

	lower := ThresholdRule{
		Direction: LowerIsBetter,
		Tiers:     []Tier{{Bound: 0.5, Label: "Conservative"}, {Bound: 1, Label: "Moderate"}},
		Fallback:  "Aggressive",
	}
	assert.Equal(t, "Conservative", lower.Label(0.4))
	assert.Equal(t, "Moderate", lower.Label(0.9))
	assert.Equal(t, "Aggressive", lower.Label(1.5))
}
