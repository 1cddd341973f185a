package dedup

import (
	"testing"

	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func tx(date string, amount float64, desc string, typ models.TransactionType) models.Transaction {
	return models.Transaction{Date: date, Amount: decimal.NewFromFloat(amount), Description: desc, Type: typ}
}

func installmentTx(n, m int) models.Transaction {
	t := tx("2024-02-01", 100, "Furniture", models.TypeExpense)
	t.IsInstallment = true
	t.InstallmentDetails = &models.InstallmentDetails{InstallmentNumber: n, TotalInstallments: m}
	return t
}

func TestKeys(t *testing.T) {
	a := tx("2024-01-01", 50, " Coffee ", models.TypeExpense)
	assert.Equal(t, "2024-01-01|50.00|Coffee|expense", SimpleKey(&a))
	assert.Equal(t, "", ExtendedKey(&a))

	a.TransactionCode = "R1"
	a.CardNumber = "1515"
	assert.Equal(t, "2024-01-01|50.00|Coffee|expense|code=R1|card=1515", ExtendedKey(&a))

	b := installmentTx(2, 6)
	assert.Equal(t, "2024-02-01|100.00|Furniture|expense|inst=2/6", ExtendedKey(&b))
}

func TestDetector_AmountRounding(t *testing.T) {
	d := NewDetector([]models.Transaction{tx("2024-01-01", 10.001, "x", models.TypeExpense)})

	c := tx("2024-01-01", 10.004, "x", models.TypeExpense)
	assert.True(t, d.IsDuplicate(&c))
}

func TestDetector_Admit(t *testing.T) {
	coffee := tx("2024-01-01", 50, "Coffee", models.TypeExpense)
	refund := tx("2024-01-01", 50, "Coffee", models.TypeIncome)

	tests := []struct {
		name     string
		existing []models.Transaction
		batch    []models.Transaction
		admitted []bool
	}{
		{
			name:     "exact duplicate within batch",
			batch:    []models.Transaction{coffee, coffee},
			admitted: []bool{true, false},
		},
		{
			name:     "duplicate of stored record",
			existing: []models.Transaction{coffee},
			batch:    []models.Transaction{coffee},
			admitted: []bool{false},
		},
		{
			name:     "type is part of identity",
			batch:    []models.Transaction{coffee, refund},
			admitted: []bool{true, true},
		},
		{
			name:     "distinct installments are kept apart",
			batch:    []models.Transaction{installmentTx(2, 6), installmentTx(3, 6), installmentTx(2, 6)},
			admitted: []bool{true, true, false},
		},
		{
			name:     "stored bare record blocks coded row",
			existing: []models.Transaction{coffee},
			batch:    []models.Transaction{withCode(coffee, "R9")},
			admitted: []bool{false},
		},
		{
			name:     "coded rows differ by code",
			batch:    []models.Transaction{withCode(coffee, "R1"), withCode(coffee, "R2"), withCode(coffee, "R1")},
			admitted: []bool{true, true, false},
		},
		{
			name:     "bare row after coded row",
			batch:    []models.Transaction{withCode(coffee, "R1"), coffee},
			admitted: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(tt.existing)
			for i := range tt.batch {
				assert.Equal(t, tt.admitted[i], d.Admit(&tt.batch[i]), "row %d", i)
			}
		})
	}
}

func TestNewDetector_DoesNotMutateExisting(t *testing.T) {
	existing := []models.Transaction{tx("2024-01-01", 1, "a", models.TypeIncome)}
	before := existing[0]

	d := NewDetector(existing)
	c := tx("2024-01-02", 1, "a", models.TypeIncome)
	d.Admit(&c)

	assert.Equal(t, before, existing[0])
	assert.Len(t, existing, 1)
	assert.Equal(t, 2, d.Len())
}

func withCode(t models.Transaction, code string) models.Transaction {
	t.TransactionCode = code
	return t
}
