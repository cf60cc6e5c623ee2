package utils

import (
	"testing"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredStatement_Nested(t *testing.T) {
	raw := `{
		"year": "2024",
		"assets": {"total_assets": 1500000, "current_assets": 500000, "inventories": "1,00,000"},
		"liabilities": {"current_liabilities": 200000},
		"equity": {"total_equity": 600000, "other_equity": 400000},
		"p_and_l": {"revenue_from_operations": 2000000, "net_profit": 150000}
	}`

	stmt, err := ParseStructuredStatement(raw)
	require.NoError(t, err)

	assert.Equal(t, "2024", stmt.Year)
	assert.Equal(t, 1500000.0, stmt.Fields[dto.TotalAssets])
	assert.Equal(t, 100000.0, stmt.Fields[dto.Inventory])
	assert.Equal(t, 400000.0, stmt.Fields[dto.Reserves])
	assert.Equal(t, 2000000.0, stmt.Fields[dto.Revenue])
	assert.Equal(t, 150000.0, stmt.Fields[dto.NetIncome])
	_, ok := stmt.Fields[dto.Cash]
	assert.False(t, ok)
}

func TestParseStructuredStatement_RepairsLLMOutput(t *testing.T) {
	raw := "Sure! Here is the extracted data:\n```json\n{\"total_assets\": 1500000, \"total_equity\": 600000,}\n```\nLet me know."

	stmt, err := ParseStructuredStatement(raw)
	require.NoError(t, err)
	assert.Equal(t, 1500000.0, stmt.Fields[dto.TotalAssets])
	assert.Equal(t, 600000.0, stmt.Fields[dto.TotalEquity])
}

func TestParseStructuredStatement_CanonicalNameBeatsAlias(t *testing.T) {
	stmt, err := ParseStructuredStatement(`{"revenue": 10, "turnover": 20}`)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stmt.Fields[dto.Revenue])
}

func TestParseStructuredStatement_Empty(t *testing.T) {
	_, err := ParseStructuredStatement("   ")
	assert.ErrorIs(t, err, dto.ErrMalformedInput)
}
