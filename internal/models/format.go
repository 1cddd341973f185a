package models

import (
	"strings"
	"unicode/utf8"
)

// Field names a semantic column of an export.
type Field string

const (
	FieldDate                    Field = "date"
	FieldAmount                  Field = "amount"
	FieldDescription             Field = "description"
	FieldType                    Field = "type"
	FieldCategory                Field = "category"
	FieldCardNumber              Field = "cardNumber"
	FieldTotalAmount             Field = "totalAmount"
	FieldInstallmentNumber       Field = "installmentNumber"
	FieldTotalInstallments       Field = "totalInstallments"
	FieldOriginalTransactionDate Field = "originalTransactionDate"
	FieldChargeDate              Field = "chargeDate"
	FieldTransactionCode         Field = "transactionCode"
	FieldBusinessCategory        Field = "businessCategory"
	FieldBusinessIdentifier      Field = "businessIdentifier"
	FieldDetails                 Field = "details"
)

// RequiredFields must resolve to a column for an import to proceed, in reporting order.
var RequiredFields = []Field{FieldDate, FieldAmount, FieldDescription}

// OptionalFields are resolved when the format maps them.
var OptionalFields = []Field{
	FieldType,
	FieldCategory,
	FieldCardNumber,
	FieldTotalAmount,
	FieldInstallmentNumber,
	FieldTotalInstallments,
	FieldOriginalTransactionDate,
	FieldChargeDate,
	FieldTransactionCode,
	FieldBusinessCategory,
	FieldBusinessIdentifier,
	FieldDetails,
}

// Sheet selection modes.
const (
	SheetsAll      = "all"
	SheetsFirst    = "first"
	SheetsSpecific = "specific"
)

// SheetSelection declares which sheets of a workbook are imported.
// An empty Mode means all sheets.
type SheetSelection struct {
	Mode  string   `yaml:"mode,omitempty" json:"mode,omitempty"`
	Names []string `yaml:"names,omitempty" json:"names,omitempty"`
}

// TypeIdentifier maps the raw values of a type column to income or expense.
type TypeIdentifier struct {
	Column        string   `yaml:"column,omitempty" json:"column,omitempty"`
	IncomeValues  []string `yaml:"income_values,omitempty" json:"incomeValues,omitempty"`
	ExpenseValues []string `yaml:"expense_values,omitempty" json:"expenseValues,omitempty"`
	InvertedLogic bool     `yaml:"inverted_logic,omitempty" json:"invertedLogic,omitempty"`
}

// InstallmentIdentifier lists substrings that mark a description as an installment.
type InstallmentIdentifier struct {
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// FormatDescriptor describes how to interpret one export layout. The engine treats it
// as read-only.
type FormatDescriptor struct {
	Name                  string                 `yaml:"name" json:"name"`
	Description           string                 `yaml:"description,omitempty" json:"description,omitempty"`
	Mapping               map[Field]string       `yaml:"mapping" json:"mapping"`
	DateFormat            string                 `yaml:"date_format,omitempty" json:"dateFormat,omitempty"`
	Delimiter             string                 `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	Encoding              string                 `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	DecimalSeparator      string                 `yaml:"decimal_separator,omitempty" json:"decimalSeparator,omitempty"`
	HeaderRowIndex        *int                   `yaml:"header_row_index,omitempty" json:"headerRowIndex,omitempty"`
	TypeIdentifier        *TypeIdentifier        `yaml:"type_identifier,omitempty" json:"typeIdentifier,omitempty"`
	InstallmentIdentifier *InstallmentIdentifier `yaml:"installment_identifier,omitempty" json:"installmentIdentifier,omitempty"`
	SheetSelection        SheetSelection         `yaml:"sheet_selection,omitempty" json:"sheetSelection,omitempty"`
	CreditCardFormat      bool                   `yaml:"credit_card_format,omitempty" json:"creditCardFormat,omitempty"`
}

// Column returns the mapped column name for a field, or "" when unmapped.
func (d *FormatDescriptor) Column(f Field) string {
	if d == nil || d.Mapping == nil {
		return ""
	}
	return strings.TrimSpace(d.Mapping[f])
}

// DelimiterRune returns the first rune of the delimiter, defaulting to a comma.
func (d *FormatDescriptor) DelimiterRune() rune {
	if d == nil || d.Delimiter == "" {
		return ','
	}
	if d.Delimiter == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(d.Delimiter)
	return r
}

// InvertedSigns reports whether positive raw amounts mean expenses for this format.
func (d *FormatDescriptor) InvertedSigns() bool {
	if d == nil {
		return false
	}
	return d.CreditCardFormat || (d.TypeIdentifier != nil && d.TypeIdentifier.InvertedLogic)
}

// TypeColumn returns the column carrying explicit types: the identifier's column first,
// then the mapped type column.
func (d *FormatDescriptor) TypeColumn() string {
	if d == nil {
		return ""
	}
	if d.TypeIdentifier != nil && strings.TrimSpace(d.TypeIdentifier.Column) != "" {
		return strings.TrimSpace(d.TypeIdentifier.Column)
	}
	return d.Column(FieldType)
}

// InstallmentPatterns returns the configured free-text installment markers.
func (d *FormatDescriptor) InstallmentPatterns() []string {
	if d == nil || d.InstallmentIdentifier == nil {
		return nil
	}
	return d.InstallmentIdentifier.Patterns
}

// SelectsSheet reports whether the sheet at index i named name should be imported.
func (d *FormatDescriptor) SelectsSheet(i int, name string) bool {
	if d == nil {
		return true
	}
	switch d.SheetSelection.Mode {
	case SheetsFirst:
		return i == 0
	case SheetsSpecific:
		for _, n := range d.SheetSelection.Names {
			if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(name)) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
