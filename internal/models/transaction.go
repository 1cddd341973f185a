// Package models provides the data structures shared by the import engine and its callers.
package models

import (
	"github.com/shopspring/decimal"
)

// TransactionType carries the direction of a transaction. Amounts are always non-negative.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is the canonical record produced by an import.
type Transaction struct {
	Date               string              `json:"date" yaml:"date"` // YYYY-MM-DD
	Amount             decimal.Decimal     `json:"amount" yaml:"amount"`
	Description        string              `json:"description" yaml:"description"`
	Type               TransactionType     `json:"type" yaml:"type"`
	CategoryID         string              `json:"categoryId" yaml:"category_id"`
	Notes              string              `json:"notes" yaml:"notes"`
	CardNumber         string              `json:"cardNumber,omitempty" yaml:"card_number,omitempty"`
	IsInstallment      bool                `json:"isInstallment" yaml:"is_installment"`
	InstallmentDetails *InstallmentDetails `json:"installmentDetails,omitempty" yaml:"installment_details,omitempty"`
	TransactionCode    string              `json:"transactionCode,omitempty" yaml:"transaction_code,omitempty"`
	BusinessCategory   string              `json:"businessCategory,omitempty" yaml:"business_category,omitempty"`
	BusinessIdentifier string              `json:"businessIdentifier,omitempty" yaml:"business_identifier,omitempty"`
	OriginalAmount     *decimal.Decimal    `json:"originalAmount,omitempty" yaml:"original_amount,omitempty"`
	SheetName          string              `json:"sheetName,omitempty" yaml:"sheet_name,omitempty"`
}

// IsExpense returns true if the transaction takes money out.
func (t *Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// SignedAmount returns the amount with the sign implied by the type.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// InstallmentDetails describes one period of a purchase split into several installments.
type InstallmentDetails struct {
	TotalAmount             decimal.Decimal  `json:"totalAmount" yaml:"total_amount"`
	CurrentInstallment      decimal.Decimal  `json:"currentInstallment" yaml:"current_installment"` // per-period amount
	TotalInstallments       int              `json:"totalInstallments" yaml:"total_installments"`
	InstallmentNumber       int              `json:"installmentNumber" yaml:"installment_number"`
	OriginalTransactionDate string           `json:"originalTransactionDate" yaml:"original_transaction_date"`
	InstallmentDate         string           `json:"installmentDate" yaml:"installment_date"`
	RemainingAmount         *decimal.Decimal `json:"remainingAmount,omitempty" yaml:"remaining_amount,omitempty"`
}
