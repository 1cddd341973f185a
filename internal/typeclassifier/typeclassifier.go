// Package typeclassifier decides whether a row is income or an expense.
package typeclassifier

import (
	"strings"

	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

// Classify returns the transaction type and the absolute amount for a raw signed amount.
// typeCell is the raw value of the format's type column, or "" when the format has none.
func Classify(raw decimal.Decimal, typeCell string, desc *models.FormatDescriptor) (models.TransactionType, decimal.Decimal) {
	amount := raw.Abs()

	if t, ok := FromTypeCell(typeCell, desc); ok {
		return t, amount
	}
	return FromSign(raw, desc.InvertedSigns()), amount
}

// FromTypeCell matches a type column value against the format's income and expense lists.
func FromTypeCell(value string, desc *models.FormatDescriptor) (models.TransactionType, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || desc == nil {
		return "", false
	}

	var income, expense []string
	if desc.TypeIdentifier != nil {
		income = desc.TypeIdentifier.IncomeValues
		expense = desc.TypeIdentifier.ExpenseValues
	}
	if len(income) == 0 && len(expense) == 0 && desc.Column(models.FieldType) != "" {
		// a plain type column may carry the canonical names
		income = []string{string(models.TypeIncome)}
		expense = []string{string(models.TypeExpense)}
	}

	if containsAny(value, income) {
		return models.TypeIncome, true
	}
	if containsAny(value, expense) {
		return models.TypeExpense, true
	}
	return "", false
}

// FromSign infers the type from the sign. Inverted formats report charges as positive.
func FromSign(raw decimal.Decimal, inverted bool) models.TransactionType {
	if inverted {
		if raw.IsNegative() {
			return models.TypeIncome
		}
		return models.TypeExpense
	}
	if raw.IsNegative() {
		return models.TypeExpense
	}
	return models.TypeIncome
}

func containsAny(value string, candidates []string) bool {
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && strings.Contains(value, c) {
			return true
		}
	}
	return false
}
