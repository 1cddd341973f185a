package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionBuilder(t *testing.T) {
	builder := NewTransactionBuilder()

	assert.NotNil(t, builder)
	assert.Nil(t, builder.err)
	assert.Equal(t, TypeExpense, builder.tx.Type)
	assert.True(t, builder.tx.Amount.IsZero())
}

func TestTransactionBuilder_WithDate(t *testing.T) {
	tests := []struct {
		name         string
		date         string
		expectError  bool
		expectedDate string
	}{
		{name: "iso date", date: "2024-01-15", expectedDate: "2024-01-15"},
		{name: "empty date", date: "", expectError: true},
		{name: "not iso", date: "15/01/2024", expectError: true},
		{name: "impossible day", date: "2024-02-30", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewTransactionBuilder().WithDate(tt.date)

			if tt.expectError {
				assert.NotNil(t, builder.err)
			} else {
				assert.Nil(t, builder.err)
				assert.Equal(t, tt.expectedDate, builder.tx.Date)
			}
		})
	}
}

func TestTransactionBuilder_Build(t *testing.T) {
	tx, err := NewTransactionBuilder().
		WithDate("2024-03-01").
		WithAmount(decimal.NewFromFloat(45.5)).
		WithDescription("  Coffee Shop  ").
		AsType(TypeIncome).
		WithCardNumber(" 1234 ").
		WithTransactionCode("REF-1").
		WithBusiness("Food", "998877").
		WithCategory("cat-1").
		WithNotes("note").
		WithSheet("March").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", tx.Date)
	assert.True(t, decimal.NewFromFloat(45.5).Equal(tx.Amount))
	assert.Equal(t, "Coffee Shop", tx.Description)
	assert.Equal(t, TypeIncome, tx.Type)
	assert.Equal(t, "1234", tx.CardNumber)
	assert.Equal(t, "REF-1", tx.TransactionCode)
	assert.Equal(t, "Food", tx.BusinessCategory)
	assert.Equal(t, "998877", tx.BusinessIdentifier)
	assert.Equal(t, "cat-1", tx.CategoryID)
	assert.Equal(t, "note", tx.Notes)
	assert.Equal(t, "March", tx.SheetName)
	assert.False(t, tx.IsInstallment)
	assert.Nil(t, tx.OriginalAmount)
}

func TestTransactionBuilder_BuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *TransactionBuilder
	}{
		{
			name:    "missing date",
			builder: NewTransactionBuilder().WithAmount(decimal.NewFromInt(1)).WithDescription("x"),
		},
		{
			name:    "zero amount",
			builder: NewTransactionBuilder().WithDate("2024-01-01").WithDescription("x"),
		},
		{
			name:    "negative amount",
			builder: NewTransactionBuilder().WithDate("2024-01-01").WithAmount(decimal.NewFromInt(-5)).WithDescription("x"),
		},
		{
			name:    "blank description",
			builder: NewTransactionBuilder().WithDate("2024-01-01").WithAmount(decimal.NewFromInt(1)).WithDescription("   "),
		},
		{
			name:    "unknown type",
			builder: NewTransactionBuilder().WithDate("2024-01-01").WithAmount(decimal.NewFromInt(1)).WithDescription("x").AsType("transfer"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.Error(t, err)
		})
	}
}

func TestTransactionBuilder_Installment(t *testing.T) {
	remaining := decimal.NewFromInt(400)
	details := &InstallmentDetails{
		TotalAmount:        decimal.NewFromInt(600),
		CurrentInstallment: decimal.NewFromInt(100),
		TotalInstallments:  6,
		InstallmentNumber:  2,
		RemainingAmount:    &remaining,
	}

	tx, err := NewTransactionBuilder().
		WithDate("2024-02-10").
		WithAmount(decimal.NewFromInt(100)).
		WithDescription("TV").
		WithInstallment(details).
		Build()

	require.NoError(t, err)
	assert.True(t, tx.IsInstallment)
	require.NotNil(t, tx.InstallmentDetails)
	require.NotNil(t, tx.OriginalAmount)
	assert.True(t, decimal.NewFromInt(600).Equal(*tx.OriginalAmount))
}

func TestTransactionBuilder_SinglePaymentIsNotInstallment(t *testing.T) {
	tx, err := NewTransactionBuilder().
		WithDate("2024-02-10").
		WithAmount(decimal.NewFromInt(100)).
		WithDescription("TV").
		WithInstallment(&InstallmentDetails{TotalInstallments: 1, InstallmentNumber: 1}).
		Build()

	require.NoError(t, err)
	assert.False(t, tx.IsInstallment)
	assert.Nil(t, tx.InstallmentDetails)
	assert.Nil(t, tx.OriginalAmount)
}

func TestTransaction_SignedAmount(t *testing.T) {
	tx := Transaction{Amount: decimal.NewFromInt(10), Type: TypeExpense}
	assert.True(t, decimal.NewFromInt(-10).Equal(tx.SignedAmount()))
	assert.True(t, tx.IsExpense())

	tx.Type = TypeIncome
	assert.True(t, decimal.NewFromInt(10).Equal(tx.SignedAmount()))
	assert.False(t, tx.IsExpense())
}
