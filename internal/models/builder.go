package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISODateLayout is the layout of every date stored on a Transaction.
const ISODateLayout = "2006-01-02"

// TransactionBuilder provides a fluent API for constructing transactions
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder creates a new TransactionBuilder with default values
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Amount: decimal.Zero,
			Type:   TypeExpense,
		},
	}
}

// WithDate sets the transaction date, which must already be in YYYY-MM-DD form
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date == "" {
		b.err = errors.New("date cannot be empty")
		return b
	}
	if _, err := time.Parse(ISODateLayout, date); err != nil {
		b.err = fmt.Errorf("invalid date %q: %w", date, err)
		return b
	}
	b.tx.Date = date
	return b
}

// WithAmount sets the absolute amount of the transaction
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if amount.IsNegative() {
		b.err = fmt.Errorf("amount must not be negative: %s", amount)
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithDescription sets the description
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = strings.TrimSpace(description)
	return b
}

// AsType sets the direction of the transaction
func (b *TransactionBuilder) AsType(t TransactionType) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !t.Valid() {
		b.err = fmt.Errorf("unknown transaction type %q", t)
		return b
	}
	b.tx.Type = t
	return b
}

// WithCategory sets the category identifier
func (b *TransactionBuilder) WithCategory(categoryID string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.CategoryID = categoryID
	return b
}

// WithNotes sets free-form notes
func (b *TransactionBuilder) WithNotes(notes string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Notes = notes
	return b
}

// WithCardNumber sets the card number or its last digits
func (b *TransactionBuilder) WithCardNumber(card string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.CardNumber = strings.TrimSpace(card)
	return b
}

// WithTransactionCode sets the bank reference code
func (b *TransactionBuilder) WithTransactionCode(code string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.TransactionCode = strings.TrimSpace(code)
	return b
}

// WithBusiness sets the merchant category and identifier
func (b *TransactionBuilder) WithBusiness(category, identifier string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.BusinessCategory = strings.TrimSpace(category)
	b.tx.BusinessIdentifier = strings.TrimSpace(identifier)
	return b
}

// WithSheet records the sheet the transaction was read from
func (b *TransactionBuilder) WithSheet(name string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.SheetName = name
	return b
}

// WithInstallment attaches installment details. Details describing a single payment
// are discarded on Build.
func (b *TransactionBuilder) WithInstallment(details *InstallmentDetails) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.InstallmentDetails = details
	return b
}

// Build validates the transaction and returns the final Transaction
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, fmt.Errorf("builder error: %w", b.err)
	}
	if b.tx.Date == "" {
		return Transaction{}, errors.New("date is required")
	}
	if b.tx.Amount.IsZero() {
		return Transaction{}, errors.New("amount must be non-zero")
	}
	if b.tx.Description == "" {
		return Transaction{}, errors.New("description is required")
	}

	b.populateDerivedFields()
	return b.tx, nil
}

// populateDerivedFields keeps the installment flag, details and original amount consistent
func (b *TransactionBuilder) populateDerivedFields() {
	d := b.tx.InstallmentDetails
	if d == nil || d.TotalInstallments <= 1 {
		b.tx.IsInstallment = false
		b.tx.InstallmentDetails = nil
		b.tx.OriginalAmount = nil
		return
	}
	b.tx.IsInstallment = true
	total := d.TotalAmount
	b.tx.OriginalAmount = &total
}
