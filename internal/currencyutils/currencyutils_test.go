package currencyutils

import (
	"math"
	"testing"
	"time"

	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		cell     any
		expected string
	}{
		{"float cell", 120.5, "120.5"},
		{"negative float", float64(-45), "-45"},
		{"int cell", 7, "7"},
		{"plain text", "-50", "-50"},
		{"thousands comma", "1,234.56", "1234.56"},
		{"currency symbol", "₪ 99.90", "99.9"},
		{"currency code", "CHF 12.00", "12"},
		{"trailing minus", "50.00-", "-50"},
		{"parenthesised", "(75.25)", "-75.25"},
		{"second dot ignored", "1.234.56", "1.234"},
		{"junk after number", "12-3", "12"},
		{"letters only", "n/a", "0"},
		{"lone minus", "-", "0"},
		{"empty", "", "0"},
		{"nil", nil, "0"},
		{"positive infinity", math.Inf(1), "0"},
		{"negative infinity", math.Inf(-1), "0"},
		{"not a number", math.NaN(), "0"},
		{"legacy xls timestamp", time.Date(1900, 4, 29, 0, 0, 0, 0, time.UTC), "120"},
		{"legacy xls timestamp with fraction", time.Date(1900, 1, 11, 12, 0, 0, 0, time.UTC), "12.5"},
		{"legacy xls negative timestamp", time.Date(1899, 11, 14, 12, 0, 0, 0, time.UTC), "-45.5"},
		{"zero time", time.Time{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAmount(tt.cell, nil)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestNormalizeAmount_DecimalComma(t *testing.T) {
	desc := &models.FormatDescriptor{DecimalSeparator: ","}

	tests := []struct {
		raw      string
		expected string
	}{
		{"1.234,56", "1234.56"},
		{"-12,5", "-12.5"},
		{"€ 3,00", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeAmount(tt.raw, desc)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50.00", FormatAmount(decimal.NewFromInt(50)))
	assert.Equal(t, "0.33", FormatAmount(decimal.NewFromFloat(0.3333)))
	assert.True(t, IsNegative(decimal.NewFromInt(-1)))
	assert.False(t, IsNegative(decimal.Zero))
}
