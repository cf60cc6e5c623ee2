package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		token string
		want  float64
	}{
		{"1,234.56", 1234.56},
		{"(1,234.56)", -1234.56},
		{"₹ 1,234", 1234},
		{"Rs. 5,00,000", 500000},
		{"INR 750", 750},
		{"$ (2,000)", -2000},
		{"-500", -500},
		{"1.5 crore", 1.5e7},
		{"2 lakhs", 2e5},
		{"12 Cr.", 1.2e8},
		{"1,000 ", 1000},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseNumber(tt.token)
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestParseNumber_Rejects(t *testing.T) {
	for _, token := range []string{"", "  ", "-", "—", "–", "--", "N/A", "na", "n.a.", "Nil", "none", "abc", "1,234 5,678", "inf", "NaN", "Note"} {
		_, ok := ParseNumber(token)
		assert.False(t, ok, "token %q", token)
	}
}

func TestParseNumber_FormattedValueRoundTrips(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 1234.5, -98765.4321, 1.5e7} {
		got, ok := ParseNumber(strconv.FormatFloat(v, 'f', -1, 64))
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []float64
	}{
		{"two columns", "Total Assets 1,500,000 1,200,000", []float64{1500000, 1200000}},
		{"parenthesised loss", "Loss (500) and 2,000", []float64{-500, 2000}},
		{"glued digits skipped", "FY2024 Note4 revenue 300", []float64{300}},
		{"spaced dash is not a sign", "Cash - 500", []float64{500}},
		{"leading minus", "Net loss -2,500", []float64{-2500}},
		{"currency prefix", "Rs.1,000 and INR5000", []float64{1000, 5000}},
		{"word ending in rs is not currency", "Others2024 Revenue 300", []float64{300}},
		{"units", "1.5 crore and 20 lakhs", []float64{1.5e7, 2e6}},
		{"none", "Balance Sheet", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNumbers(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
		})
	}
}
