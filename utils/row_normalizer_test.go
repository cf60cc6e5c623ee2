package utils

import (
	"testing"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRow(t *testing.T) {
	row, ok := NormalizeRow(dto.TextRow("Trade  Receivables", "Note 5", "1,20,000", "1,00,000"))
	require.True(t, ok)
	assert.Equal(t, "trade receivables", row.Particulars)
	assert.Equal(t, []float64{5, 120000, 100000}, row.Values)

	v, ok := SelectLatestValue(row.Values, OrderUnknown)
	assert.True(t, ok)
	assert.Equal(t, 120000.0, v)
}

func TestNormalizeRow_LongestDescriptionWins(t *testing.T) {
	row, ok := NormalizeRow(dto.TextRow("Total", "Total current assets", "500"))
	require.True(t, ok)
	assert.Equal(t, "total current assets", row.Particulars)
}

func TestNormalizeRow_Dropped(t *testing.T) {
	_, ok := NormalizeRow(dto.TextRow("1,000", "2,000"))
	assert.False(t, ok, "no description")

	_, ok = NormalizeRow(dto.TextRow("Assets", "", "-"))
	assert.False(t, ok, "no values")

	_, ok = NormalizeRow(nil)
	assert.False(t, ok)
}

func TestNormalizeRow_SkipsEmptyCellsAndDuplicates(t *testing.T) {
	row := dto.RawRow{
		{Key: "particulars", Cell: dto.TextCell("Inventories")},
		{Key: "note", Cell: dto.EmptyCell{}},
		{Key: "2024", Cell: dto.TextCell("500")},
		{Key: "2024_wrapped", Cell: dto.TextCell("500.05")},
		{Key: "2023", Cell: dto.TextCell("(450)")},
	}
	nr, ok := NormalizeRow(row)
	require.True(t, ok)
	assert.Equal(t, []float64{500, -450}, nr.Values)
}

func TestNormalizeRows_KeepsOrder(t *testing.T) {
	rows := []dto.RawRow{
		dto.TextRow("Particulars", "2024", "2023"),
		dto.TextRow("Revenue", "1,000", "900"),
		dto.TextRow("", ""),
		dto.TextRow("Cost of sales", "600", "500"),
	}
	out := NormalizeRows(rows)
	require.Len(t, out, 3)
	assert.Equal(t, "particulars", out[0].Particulars)
	assert.Equal(t, "revenue", out[1].Particulars)
	assert.Equal(t, "cost of sales", out[2].Particulars)
	assert.Equal(t, LatestFirst, DetectRowColumnOrder(out))
}
