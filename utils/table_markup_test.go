package utils

import (
	"testing"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdownTables(t *testing.T) {
	md := "Balance sheet\n\n" +
		"| Particulars | 2024 | 2023 |\n" +
		"|---|---|---|\n" +
		"| Total Assets | 1,500,000 | 1,200,000 |\n" +
		"| Inventories |  | 90,000 |\n"

	rows, err := ParseMarkdownTables(md)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "col_0", rows[0][0].Key)
	assert.Equal(t, dto.TextCell("Particulars"), rows[0][0].Cell)

	assert.Equal(t, "Particulars", rows[1][0].Key)
	assert.Equal(t, "2024", rows[1][1].Key)
	assert.Equal(t, dto.TextCell("1,500,000"), rows[1][1].Cell)
	assert.Equal(t, dto.EmptyCell{}, rows[2][1].Cell)

	normalized := NormalizeRows(rows)
	require.Len(t, normalized, 3)
	assert.Equal(t, "total assets", normalized[1].Particulars)
	assert.Equal(t, []float64{90000}, normalized[2].Values)
}

func TestParseMarkdownTables_NoTable(t *testing.T) {
	rows, err := ParseMarkdownTables("no tables on this page")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseHTMLTables_Colspan(t *testing.T) {
	html := `<table>
		<tr><th>Particulars</th><th colspan="2">Amount</th></tr>
		<tr><td>Cash and cash equivalents</td><td>100</td><td>90</td></tr>
	</table>`

	rows, err := ParseHTMLTables(html)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 3)
	assert.Equal(t, dto.EmptyCell{}, rows[0][2].Cell)

	assert.Equal(t, "Particulars", rows[1][0].Key)
	assert.Equal(t, "Amount", rows[1][1].Key)
	assert.Equal(t, "col_2", rows[1][2].Key)
}

func TestParseMarkdownTables_RawHTML(t *testing.T) {
	answer := "<table><tr><th>Particulars</th><th>2024</th></tr>" +
		"<tr><td>Total assets</td><td>1,000</td></tr></table>"

	rows, err := ParseMarkdownTables(answer)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2024", rows[1][1].Key)
	assert.Equal(t, dto.TextCell("Total assets"), rows[1][0].Cell)
	assert.Equal(t, dto.TextCell("1,000"), rows[1][1].Cell)
}
