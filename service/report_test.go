package service

import (
	"testing"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/stretchr/testify/assert"
)

func TestFormatRatioTable(t *testing.T) {
	rs := ComputeRatios(scenarioFields())
	out := FormatRatioTable(rs)

	assert.Contains(t, out, "Liquidity Ratios")
	assert.Contains(t, out, "DuPont Analysis")
	assert.Contains(t, out, "current_ratio")
	assert.Contains(t, out, "2.5000")
	assert.Contains(t, out, "Strong")
	assert.Contains(t, out, "10.00%")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Missing fields:")
}

func TestFormatRatioTable_Empty(t *testing.T) {
	out := FormatRatioTable(ComputeRatios(dto.NewFieldSet(nil)))
	assert.NotContains(t, out, "Ratios (")
	assert.Contains(t, out, "Missing fields: total_assets")
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Working Capital Ratios", categoryTitle(dto.CategoryWorkingCapital))
	assert.Equal(t, "DuPont Analysis", categoryTitle(dto.CategoryDuPont))
}
