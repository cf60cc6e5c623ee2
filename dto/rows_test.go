package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRawRows_PreservesKeyOrder(t *testing.T) {
	data := []byte(`[
		{"Particulars": "Revenue", "Note": null, "2024": 1000, "2023": "900"},
		["Cost of sales", "", 600]
	]`)

	rows, err := DecodeRawRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	keys := make([]string, 0, len(rows[0]))
	for _, c := range rows[0] {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []string{"Particulars", "Note", "2024", "2023"}, keys)
	assert.Equal(t, TextCell("Revenue"), rows[0][0].Cell)
	assert.Equal(t, EmptyCell{}, rows[0][1].Cell)
	assert.Equal(t, TextCell("1000"), rows[0][2].Cell)

	assert.Equal(t, "col_0", rows[1][0].Key)
	assert.Equal(t, EmptyCell{}, rows[1][1].Cell)
	assert.Equal(t, TextCell("600"), rows[1][2].Cell)
}

func TestDecodeRawRows_NestedCellIsEmpty(t *testing.T) {
	rows, err := DecodeRawRows([]byte(`[{"a": {"x": 1}, "b": [1, 2], "c": true}]`))
	require.NoError(t, err)
	require.Len(t, rows[0], 3)
	for _, c := range rows[0] {
		assert.Equal(t, EmptyCell{}, c.Cell)
	}
}

func TestDecodeRawRows_Malformed(t *testing.T) {
	for _, in := range []string{``, `42`, `{"a": 1}`, `["text"]`, `[{"a": 1}`} {
		_, err := DecodeRawRows([]byte(in))
		assert.ErrorIs(t, err, ErrMalformedInput, "input %q", in)
	}
}

func TestTextRow(t *testing.T) {
	row := TextRow("Inventories", "  ", "500")
	require.Len(t, row, 3)
	assert.Equal(t, TextCell("Inventories"), row[0].Cell)
	assert.Equal(t, EmptyCell{}, row[1].Cell)
	assert.Equal(t, "col_2", row[2].Key)
}
