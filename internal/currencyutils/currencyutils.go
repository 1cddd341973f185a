// Package currencyutils turns raw amount cells into decimal values.
package currencyutils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

var (
	amountNoise   = regexp.MustCompile(`[^0-9.\-]`)
	numericPrefix = regexp.MustCompile(`^-?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// NormalizeAmount returns the signed value of a raw amount cell, or zero when the cell
// holds no number. The descriptor may be nil.
func NormalizeAmount(cell any, desc *models.FormatDescriptor) decimal.Decimal {
	switch v := cell.(type) {
	case nil:
		return decimal.Zero
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case time.Time:
		return FromSerialTime(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case decimal.Decimal:
		return v
	case string:
		sep := ""
		if desc != nil {
			sep = desc.DecimalSeparator
		}
		return ParseAmount(v, sep)
	default:
		return ParseAmount(fmt.Sprint(v), "")
	}
}

// serialEpoch is day zero of the 1900 spreadsheet date system.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// FromSerialTime recovers a number that a legacy .xls reader rendered as the timestamp of
// its serial value, rounded to cents. Timestamps carry whole seconds at most.
func FromSerialTime(t time.Time) decimal.Decimal {
	if t.IsZero() {
		return decimal.Zero
	}
	secs := t.UTC().Unix() - serialEpoch.Unix()
	return decimal.NewFromInt(secs).Div(decimal.NewFromInt(86400)).Round(2)
}

// ParseAmount parses text such as "₪1,234.50", "(50.00)" or "50.00-". With
// decimalSeparator "," the dot is treated as a thousands separator.
func ParseAmount(raw, decimalSeparator string) decimal.Decimal {
	s := StandardizeAmount(raw, decimalSeparator)
	if s == "" {
		return decimal.Zero
	}
	m := numericPrefix.FindString(s)
	if m == "" || m == "-" {
		return decimal.Zero
	}
	m = strings.TrimSuffix(m, ".")
	amount, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// StandardizeAmount strips everything but digits, dots and minus signs, moving trailing
// or parenthesised negatives to the front.
func StandardizeAmount(raw, decimalSeparator string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "("), ")")
	}
	if strings.HasSuffix(raw, "-") && !strings.Contains(strings.TrimSuffix(raw, "-"), "-") {
		negative = true
		raw = strings.TrimSuffix(raw, "-")
	}

	if decimalSeparator == "," {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	s := amountNoise.ReplaceAllString(raw, "")
	if negative && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// FormatAmount renders an amount with two decimal places and no separators
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// IsNegative checks if an amount is negative
func IsNegative(amount decimal.Decimal) bool {
	return amount.LessThan(decimal.Zero)
}
