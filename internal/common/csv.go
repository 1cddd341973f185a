// Package common provides the canonical transaction ledger: the CSV layout imported
// transactions are written to and existing transactions are read back from.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Delimiter separates ledger columns on read and write.
var Delimiter rune = ','

// SetDelimiter sets the ledger delimiter.
func SetDelimiter(delim rune) {
	if delim != 0 {
		Delimiter = delim
	}
}

// LedgerRow is one transaction as stored in the ledger CSV.
type LedgerRow struct {
	Date                    string `csv:"Date"`
	Type                    string `csv:"Type"`
	Amount                  string `csv:"Amount"`
	Description             string `csv:"Description"`
	Category                string `csv:"Category"`
	Notes                   string `csv:"Notes"`
	CardNumber              string `csv:"CardNumber"`
	TransactionCode         string `csv:"TransactionCode"`
	BusinessCategory        string `csv:"BusinessCategory"`
	BusinessIdentifier      string `csv:"BusinessIdentifier"`
	IsInstallment           bool   `csv:"IsInstallment"`
	InstallmentNumber       string `csv:"InstallmentNumber"`
	TotalInstallments       string `csv:"TotalInstallments"`
	TotalAmount             string `csv:"TotalAmount"`
	RemainingAmount         string `csv:"RemainingAmount"`
	OriginalTransactionDate string `csv:"OriginalTransactionDate"`
	InstallmentDate         string `csv:"InstallmentDate"`
	Sheet                   string `csv:"Sheet"`
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ToLedgerRow flattens a transaction.
func ToLedgerRow(tx models.Transaction) LedgerRow {
	row := LedgerRow{
		Date:               tx.Date,
		Type:               string(tx.Type),
		Amount:             fixed(tx.Amount),
		Description:        tx.Description,
		Category:           tx.CategoryID,
		Notes:              tx.Notes,
		CardNumber:         tx.CardNumber,
		TransactionCode:    tx.TransactionCode,
		BusinessCategory:   tx.BusinessCategory,
		BusinessIdentifier: tx.BusinessIdentifier,
		IsInstallment:      tx.IsInstallment,
		Sheet:              tx.SheetName,
	}
	if d := tx.InstallmentDetails; tx.IsInstallment && d != nil {
		row.InstallmentNumber = strconv.Itoa(d.InstallmentNumber)
		row.TotalInstallments = strconv.Itoa(d.TotalInstallments)
		row.TotalAmount = fixed(d.TotalAmount)
		if d.RemainingAmount != nil {
			row.RemainingAmount = fixed(*d.RemainingAmount)
		}
		row.OriginalTransactionDate = d.OriginalTransactionDate
		row.InstallmentDate = d.InstallmentDate
	}
	return row
}

// Transaction rebuilds the transaction a row was written from.
func (r LedgerRow) Transaction() (models.Transaction, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}
	txType := models.TransactionType(strings.ToLower(strings.TrimSpace(r.Type)))
	if !txType.Valid() {
		return models.Transaction{}, fmt.Errorf("invalid type %q", r.Type)
	}

	tx := models.Transaction{
		Date:               strings.TrimSpace(r.Date),
		Amount:             amount,
		Description:        r.Description,
		Type:               txType,
		CategoryID:         r.Category,
		Notes:              r.Notes,
		CardNumber:         r.CardNumber,
		TransactionCode:    r.TransactionCode,
		BusinessCategory:   r.BusinessCategory,
		BusinessIdentifier: r.BusinessIdentifier,
		SheetName:          r.Sheet,
	}
	if !r.IsInstallment {
		return tx, nil
	}

	number, err := strconv.Atoi(strings.TrimSpace(r.InstallmentNumber))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid installment number %q: %w", r.InstallmentNumber, err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(r.TotalInstallments))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid installment count %q: %w", r.TotalInstallments, err)
	}
	total, err := decimal.NewFromString(strings.TrimSpace(r.TotalAmount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid total amount %q: %w", r.TotalAmount, err)
	}
	details := &models.InstallmentDetails{
		TotalAmount:             total,
		CurrentInstallment:      amount,
		TotalInstallments:       count,
		InstallmentNumber:       number,
		OriginalTransactionDate: r.OriginalTransactionDate,
		InstallmentDate:         r.InstallmentDate,
	}
	if s := strings.TrimSpace(r.RemainingAmount); s != "" {
		remaining, err := decimal.NewFromString(s)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("invalid remaining amount %q: %w", r.RemainingAmount, err)
		}
		details.RemainingAmount = &remaining
	}
	tx.IsInstallment = true
	tx.InstallmentDetails = details
	tx.OriginalAmount = &details.TotalAmount
	return tx, nil
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv and the ledger delimiter.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger.Debug("Reading CSV file", logging.F(logging.FieldFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = Delimiter
	reader.LazyQuotes = true

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return rows, nil
}

// ReadTransactions loads a ledger written by WriteTransactionsToCSV. A missing file
// yields no transactions.
func ReadTransactions(filePath string, logger logging.Logger) ([]models.Transaction, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		logger.Debug("Ledger file not found, starting empty", logging.F(logging.FieldFile, filePath))
		return []models.Transaction{}, nil
	}

	rows, err := ReadCSVFile[LedgerRow](filePath, logger)
	if err != nil {
		return nil, err
	}
	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.Transaction()
		if err != nil {
			return nil, fmt.Errorf("ledger '%s' row %d: %w", filePath, i+2, err)
		}
		txs = append(txs, tx)
	}
	logger.Info("Loaded existing transactions",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(txs)))
	return txs, nil
}

// WriteTransactionsToCSV writes transactions to csvFile in ledger layout, creating
// parent directories as needed.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, logger logging.Logger) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	if logger == nil {
		logger = logging.Default()
	}

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]LedgerRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = ToLedgerRow(tx)
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("Wrote transactions to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)),
		logging.F(logging.FieldDelimiter, string(Delimiter)))
	return nil
}
