package typeclassifier

import (
	"testing"

	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify_CreditCardInversion(t *testing.T) {
	desc := &models.FormatDescriptor{Name: "max", CreditCardFormat: true}

	typ, amount := Classify(decimal.NewFromInt(120), "", desc)
	assert.Equal(t, models.TypeExpense, typ)
	assert.True(t, decimal.NewFromInt(120).Equal(amount))

	typ, amount = Classify(decimal.NewFromInt(-45), "", desc)
	assert.Equal(t, models.TypeIncome, typ)
	assert.True(t, decimal.NewFromInt(45).Equal(amount))
}

func TestClassify_SignInference(t *testing.T) {
	tests := []struct {
		name     string
		raw      int64
		desc     *models.FormatDescriptor
		expected models.TransactionType
	}{
		{"bank negative", -50, &models.FormatDescriptor{}, models.TypeExpense},
		{"bank positive", 3000, &models.FormatDescriptor{}, models.TypeIncome},
		{"nil descriptor", -1, nil, models.TypeExpense},
		{"inverted flag", 10, &models.FormatDescriptor{TypeIdentifier: &models.TypeIdentifier{InvertedLogic: true}}, models.TypeExpense},
		{"inverted zero", 0, &models.FormatDescriptor{CreditCardFormat: true}, models.TypeExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, amount := Classify(decimal.NewFromInt(tt.raw), "", tt.desc)
			assert.Equal(t, tt.expected, typ)
			assert.False(t, amount.IsNegative())
		})
	}
}

func TestClassify_TypeColumn(t *testing.T) {
	desc := &models.FormatDescriptor{
		TypeIdentifier: &models.TypeIdentifier{
			Column:        "Kind",
			IncomeValues:  []string{"Credit", "זיכוי"},
			ExpenseValues: []string{"Debit", "חיוב"},
		},
	}

	tests := []struct {
		name     string
		raw      int64
		cell     string
		expected models.TransactionType
	}{
		{"income overrides negative sign", -20, "CREDIT transfer", models.TypeIncome},
		{"expense overrides positive sign", 20, "card debit", models.TypeExpense},
		{"hebrew refund", 20, "זיכוי מבית עסק", models.TypeIncome},
		{"unknown value falls back to sign", -20, "other", models.TypeExpense},
		{"empty value falls back to sign", 20, "", models.TypeIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, amount := Classify(decimal.NewFromInt(tt.raw), tt.cell, desc)
			assert.Equal(t, tt.expected, typ)
			assert.True(t, decimal.NewFromInt(20).Equal(amount))
		})
	}
}

func TestFromTypeCell_CanonicalNames(t *testing.T) {
	desc := &models.FormatDescriptor{Mapping: map[models.Field]string{models.FieldType: "type"}}

	typ, ok := FromTypeCell("Income", desc)
	assert.True(t, ok)
	assert.Equal(t, models.TypeIncome, typ)

	typ, ok = FromTypeCell("expense", desc)
	assert.True(t, ok)
	assert.Equal(t, models.TypeExpense, typ)

	_, ok = FromTypeCell("expense", &models.FormatDescriptor{})
	assert.False(t, ok)
}
