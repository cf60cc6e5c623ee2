package service

import (
	"math"
	"testing"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioFields() dto.FinancialFieldSet {
	return dto.NewFieldSet(map[dto.FieldName]float64{
		dto.TotalAssets:        1500000,
		dto.CurrentAssets:      500000,
		dto.Inventory:          100000,
		dto.CurrentLiabilities: 200000,
		dto.TotalLiabilities:   900000,
		dto.TotalEquity:        600000,
		dto.Revenue:            1000000,
		dto.COGS:               600000,
		dto.NetIncome:          100000,
	})
}

func f(v float64) *float64 { return &v }

func TestComputeRatios_Scenario(t *testing.T) {
	rs := ComputeRatios(scenarioFields())

	assert.InDelta(t, 2.5, ratio(t, rs, dto.CategoryLiquidity, "current_ratio"), 1e-9)
	assert.InDelta(t, 2.0, ratio(t, rs, dto.CategoryLiquidity, "quick_ratio"), 1e-9)
	assert.InDelta(t, 300000.0, ratio(t, rs, dto.CategoryLiquidity, "working_capital"), 1e-9)
	assert.InDelta(t, 0.6, ratio(t, rs, dto.CategorySolvency, "debt_ratio"), 1e-9)
	assert.InDelta(t, 1.5, ratio(t, rs, dto.CategorySolvency, "debt_to_equity"), 1e-9)
	assert.InDelta(t, 0.4, ratio(t, rs, dto.CategoryProfitability, "gross_margin"), 1e-9)
	assert.InDelta(t, 400000.0, ratio(t, rs, dto.CategoryProfitability, "gross_profit"), 1e-9)
	assert.InDelta(t, 0.1, ratio(t, rs, dto.CategoryProfitability, "net_margin"), 1e-9)
	assert.InDelta(t, 1.0/6.0, ratio(t, rs, dto.CategoryProfitability, "return_on_equity"), 1e-9)
	assert.InDelta(t, 6.0, ratio(t, rs, dto.CategoryActivity, "inventory_turnover"), 1e-9)
	assert.InDelta(t, 365.0/6.0, ratio(t, rs, dto.CategoryActivity, "inventory_holding_period"), 1e-9)

	assert.Equal(t, "Strong", rs.Interpretation["current_ratio"])
	assert.Equal(t, "Strong", rs.Interpretation["quick_ratio"])
	assert.Equal(t, "Moderate Risk", rs.Interpretation["debt_ratio"])
	assert.Equal(t, "Moderate", rs.Interpretation["debt_to_equity"])
	assert.True(t, rs.Normalized())
}

func TestComputeRatios_DuPontMatchesROE(t *testing.T) {
	rs := ComputeRatios(scenarioFields())

	roe := ratio(t, rs, dto.CategoryProfitability, "return_on_equity")
	dupont := ratio(t, rs, dto.CategoryDuPont, "roe_dupont")
	assert.InDelta(t, roe, dupont, 1e-9)

	margin := ratio(t, rs, dto.CategoryDuPont, "net_profit_margin")
	turnover := ratio(t, rs, dto.CategoryDuPont, "asset_turnover")
	multiplier := ratio(t, rs, dto.CategoryDuPont, "equity_multiplier")
	assert.InDelta(t, dupont, margin*turnover*multiplier, 1e-9)
}

func TestComputeRatios_KeyPresence(t *testing.T) {
	rs := ComputeRatios(dto.NewFieldSet(map[dto.FieldName]float64{
		dto.CurrentAssets:      500,
		dto.CurrentLiabilities: 250,
	}))

	cash, ok := rs.Get(dto.CategoryLiquidity, "cash_ratio")
	assert.True(t, ok, "a dependency is present")
	assert.Nil(t, cash)

	_, ok = rs.Get(dto.CategoryCapitalStructure, "retention_ratio")
	assert.False(t, ok, "no dependency is present")

	_, ok = rs.Interpretation["cash_ratio"]
	assert.False(t, ok)
}

func TestComputeRatios_EmptyFields(t *testing.T) {
	rs := ComputeRatios(dto.NewFieldSet(nil))
	for _, c := range dto.Categories {
		assert.Empty(t, rs.Categories[c], "%s", c)
	}
	assert.Empty(t, rs.Interpretation)
}

func TestComputeRatios_ZeroDenominator(t *testing.T) {
	rs := ComputeRatios(dto.NewFieldSet(map[dto.FieldName]float64{
		dto.CurrentAssets:      500,
		dto.CurrentLiabilities: 0,
		dto.Revenue:            0,
		dto.NetIncome:          10,
	}))

	cr, ok := rs.Get(dto.CategoryLiquidity, "current_ratio")
	assert.True(t, ok)
	assert.Nil(t, cr)

	nm, ok := rs.Get(dto.CategoryProfitability, "net_margin")
	assert.True(t, ok)
	assert.Nil(t, nm)
}

func TestComputeRatios_GrossMarginFromReportedGrossProfit(t *testing.T) {
	rs := ComputeRatios(dto.NewFieldSet(map[dto.FieldName]float64{
		dto.Revenue:     1000,
		dto.GrossProfit: 250,
	}))
	assert.InDelta(t, 0.25, ratio(t, rs, dto.CategoryProfitability, "gross_margin"), 1e-9)

	gp, ok := rs.Get(dto.CategoryProfitability, "gross_profit")
	assert.True(t, ok)
	assert.Nil(t, gp, "needs cogs")
}

func TestSafeDiv(t *testing.T) {
	assert.Nil(t, SafeDiv(nil, f(1)))
	assert.Nil(t, SafeDiv(f(1), nil))
	assert.Nil(t, SafeDiv(f(1), f(0)))
	assert.Nil(t, SafeDiv(f(math.MaxFloat64), f(1e-300)))

	for _, pair := range [][2]float64{{1, 2}, {-3, 4}, {0, 7}, {1e9, 3}} {
		got := SafeDiv(f(pair[0]), f(pair[1]))
		require.NotNil(t, got)
		assert.Equal(t, pair[0]/pair[1], *got)
	}
}

func TestNewRatioEngine_Overrides(t *testing.T) {
	rules := MergeThresholds(DefaultThresholds(), map[string]dto.ThresholdRule{
		"current_ratio": {Tiers: []dto.Tier{{Bound: 3, Label: "Very strong"}}, Fallback: "Below target"},
	})
	engine := NewRatioEngine(rules)

	rs := engine.Compute(scenarioFields())
	assert.Equal(t, "Below target", rs.Interpretation["current_ratio"])
	assert.Equal(t, dto.HigherIsBetter, engine.Thresholds()["current_ratio"].Direction)
	assert.Equal(t, "Strong", rs.Interpretation["quick_ratio"])
}

func TestComputeRatios_PercentagesAreFractions(t *testing.T) {
	rs := ComputeRatios(scenarioFields())
	for _, c := range dto.Categories {
		for name, v := range rs.Categories[c] {
			if v == nil || !rs.IsPercentage(c, name) {
				continue
			}
			assert.LessOrEqual(t, math.Abs(*v), 1.0, "%s/%s", c, name)
		}
	}
}
