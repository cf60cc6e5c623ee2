package utils

import (
	"math"
	"strings"
	"unicode"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
)

// duplicateTolerance collapses adjacent values OCR repeated across wrapped
// cell lines.
const duplicateTolerance = 0.1

// NormalizeRows turns parsed table rows into (particulars, values) pairs.
// Rows without a description or without any amount are dropped; order is
// preserved.
func NormalizeRows(rows []dto.RawRow) []dto.NormalizedRow {
	var out []dto.NormalizedRow
	for _, row := range rows {
		if nr, ok := NormalizeRow(row); ok {
			out = append(out, nr)
		}
	}
	return out
}

// NormalizeRow reconstructs a single row.
func NormalizeRow(row dto.RawRow) (dto.NormalizedRow, bool) {
	var description string
	var values []float64

	for _, col := range row {
		var text string
		switch c := col.Cell.(type) {
		case dto.TextCell:
			text = strings.TrimSpace(string(c))
		case dto.EmptyCell:
			continue
		default:
			continue
		}
		if text == "" {
			continue
		}

		if v, ok := ParseNumber(text); ok {
			values = append(values, v)
			continue
		}

		values = append(values, ExtractNumbers(text)...)
		if isDescription(text) && len(text) > len(description) {
			description = text
		}
	}

	values = dedupeAdjacent(values)
	if description == "" || len(values) == 0 {
		return dto.NormalizedRow{}, false
	}
	return dto.NormalizedRow{
		Particulars: cleanDescription(description),
		Values:      values,
	}, true
}

func isDescription(text string) bool {
	if len(text) <= 3 || strings.Contains(strings.ToLower(text), "note") {
		return false
	}
	return strings.IndexFunc(text, unicode.IsLetter) >= 0
}

func cleanDescription(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func dedupeAdjacent(values []float64) []float64 {
	if len(values) < 2 {
		return values
	}
	out := values[:1:1]
	for _, v := range values[1:] {
		if math.Abs(v-out[len(out)-1]) <= duplicateTolerance {
			continue
		}
		out = append(out, v)
	}
	return out
}
