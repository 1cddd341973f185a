// Package installment recognises rows that are one period of a multi-period purchase.
package installment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

var (
	indexOfCount = regexp.MustCompile(`(?i)(?:תשלום|installment|payment)\s*(\d+)\s*(?:מתוך|of|from|/)\s*(\d+)`)
	slashCount   = regexp.MustCompile(`(?i)(\d+)\s*/\s*(\d+)\s*(?:תשלומים|installments|payments)`)
	fraction     = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d+)\s*$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Input carries the cells of one row that matter for installment detection. Cells of
// columns the format does not map are nil.
type Input struct {
	Description     string
	Details         string
	PerRowAmount    decimal.Decimal
	TotalAmount     any
	Number          any
	Count           any
	TransactionDate string // YYYY-MM-DD
	ChargeDate      string // YYYY-MM-DD, optional
	OriginalDate    string // YYYY-MM-DD, optional
}

// Detect returns installment details, or nil when the row is a single payment.
// Declared columns take priority; free-text patterns fill what the columns leave out.
func Detect(in Input, desc *models.FormatDescriptor) *models.InstallmentDetails {
	perRow := in.PerRowAmount.Abs()
	textNumber, textCount := fromText(in, desc)

	if d := fromColumns(in, perRow, desc, textNumber, textCount); d != nil {
		return d
	}
	if textCount > 1 {
		return build(in, perRow, decimal.Zero, textNumber, textCount)
	}
	return nil
}

func fromColumns(in Input, perRow decimal.Decimal, desc *models.FormatDescriptor, textNumber, textCount int) *models.InstallmentDetails {
	if isBlank(in.TotalAmount) && isBlank(in.Number) && isBlank(in.Count) {
		return nil
	}

	total := decimal.Zero
	if !isBlank(in.TotalAmount) {
		total = currencyutils.NormalizeAmount(in.TotalAmount, desc).Abs()
	}

	number, count := parseCount(in.Number)
	if n, m := parseCount(in.Count); m > 0 {
		number, count = pick(number, n), m
	} else if n > 0 {
		count = n
	}

	if count == 0 && textCount > 1 {
		count = textCount
	}
	if count == 0 && total.IsPositive() && perRow.IsPositive() {
		count = int(total.Div(perRow).Round(0).IntPart())
	}
	if count <= 1 {
		return nil
	}
	if number == 0 && textCount == count {
		number = textNumber
	}
	return build(in, perRow, total, number, count)
}

// fromText extracts (index, count) from the description and details when the format
// declares installment markers and one of them is present.
func fromText(in Input, desc *models.FormatDescriptor) (int, int) {
	patterns := desc.InstallmentPatterns()
	if len(patterns) == 0 {
		return 0, 0
	}

	text := strings.TrimSpace(in.Description + " " + in.Details)
	if !containsPattern(text, patterns) {
		return 0, 0
	}

	m := indexOfCount.FindStringSubmatch(text)
	if m == nil {
		m = slashCount.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, 0
	}

	number, _ := strconv.Atoi(m[1])
	count, _ := strconv.Atoi(m[2])
	return number, count
}

func build(in Input, perRow, total decimal.Decimal, number, count int) *models.InstallmentDetails {
	if number < 1 {
		number = 1
	}
	if !total.IsPositive() {
		total = perRow.Mul(decimal.NewFromInt(int64(count)))
	}

	originalDate := in.OriginalDate
	if originalDate == "" {
		originalDate = in.TransactionDate
	}
	installmentDate := in.ChargeDate
	if installmentDate == "" {
		installmentDate = in.TransactionDate
	}

	remaining := Remaining(total, perRow, number)
	return &models.InstallmentDetails{
		TotalAmount:             total,
		CurrentInstallment:      perRow,
		TotalInstallments:       count,
		InstallmentNumber:       number,
		OriginalTransactionDate: originalDate,
		InstallmentDate:         installmentDate,
		RemainingAmount:         &remaining,
	}
}

// Remaining is what is still owed after installment number n has been paid, never below zero.
func Remaining(total, perRow decimal.Decimal, n int) decimal.Decimal {
	paid := perRow.Mul(decimal.NewFromInt(int64(n - 1))).Add(perRow)
	r := total.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Notes renders the provenance line stored on an imported record.
func Notes(fileName, sheet string, d *models.InstallmentDetails) string {
	notes := "Imported from " + fileName
	if sheet != "" {
		notes += " - sheet: " + sheet
	}
	if d != nil && d.TotalInstallments > 1 {
		notes += fmt.Sprintf(" - installment %d of %d", d.InstallmentNumber, d.TotalInstallments)
	}
	return notes
}

// parseCount reads an integer cell; "N/M" cells yield both parts.
func parseCount(cell any) (int, int) {
	if n, m := parseFraction(cell); m > 0 {
		return n, m
	}
	switch v := cell.(type) {
	case float64:
		return int(v), 0
	case int:
		return v, 0
	case string:
		digits := nonDigits.ReplaceAllString(v, "")
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, 0
		}
		return n, 0
	}
	return 0, 0
}

func parseFraction(cell any) (int, int) {
	s, ok := cell.(string)
	if !ok {
		return 0, 0
	}
	m := fraction.FindStringSubmatch(s)
	if m == nil {
		return 0, 0
	}
	n, _ := strconv.Atoi(m[1])
	c, _ := strconv.Atoi(m[2])
	return n, c
}

func pick(current, candidate int) int {
	if current > 0 {
		return current
	}
	return candidate
}

func isBlank(cell any) bool {
	switch v := cell.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func containsPattern(text string, patterns []string) bool {
	lower := strings.ToLower(text)
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
