package common

import (
	"bytes"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(t *testing.T, date, desc string) models.Transaction {
	t.Helper()
	out, err := models.NewTransactionBuilder().
		WithDate(date).
		WithAmount(decimal.NewFromInt(10)).
		WithDescription(desc).
		Build()
	require.NoError(t, err)
	return out
}

func TestLoadBaseline(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.csv")
	output := filepath.Join(dir, "out.csv")
	require.NoError(t, common.WriteTransactionsToCSV([]models.Transaction{tx(t, "2024-01-01", "A")}, existing, nil))
	require.NoError(t, common.WriteTransactionsToCSV([]models.Transaction{tx(t, "2024-01-02", "B")}, output, nil))
	log := logging.NewMockLogger()

	b, err := LoadBaseline(ImportOptions{Existing: existing, Output: output}, log)
	require.NoError(t, err)
	assert.Len(t, b.Existing, 1)
	assert.Empty(t, b.Kept)

	b, err = LoadBaseline(ImportOptions{Existing: existing, Output: output, Append: true}, log)
	require.NoError(t, err)
	assert.Len(t, b.Existing, 2)
	assert.Len(t, b.Kept, 1)

	b, err = LoadBaseline(ImportOptions{Existing: output, Output: output, Append: true}, log)
	require.NoError(t, err)
	assert.Len(t, b.Existing, 1)
	assert.Len(t, b.Kept, 1)

	// writing back to the existing ledger keeps its records without --append
	chdir(t, dir)
	b, err = LoadBaseline(ImportOptions{Existing: "out.csv", Output: output}, log)
	require.NoError(t, err)
	assert.Len(t, b.Existing, 1)
	require.Len(t, b.Kept, 1)
	assert.Equal(t, "B", b.Kept[0].Description)
	assert.True(t, log.HasEntry("INFO", "Output is the existing ledger, appending"))

	_, err = LoadBaseline(ImportOptions{Existing: filepath.Join(dir, "none.csv")}, log)
	assert.ErrorContains(t, err, "existing ledger not found")
}

func TestCardPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Cards.Blocked = []string{"2623"}
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	p := CardPolicy(c, nil, nil)
	require.NotNil(t, p)
	assert.False(t, p.Admit("2623"))
	assert.True(t, p.Admit("1515"))

	p = CardPolicy(c, []string{"1515"}, nil)
	assert.True(t, p.Admit("1515"))
	assert.False(t, p.Admit("0691"))
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, filepath.Join("in", "max.transactions.csv"), DefaultOutput(filepath.Join("in", "max.xlsx")))
	assert.Equal(t, "export.transactions.csv", DefaultOutput("export"))
}

func TestPrintSummary(t *testing.T) {
	var s Summary
	s.Output = "ledger.csv"
	s.Add(models.ParseResult{
		Success:   true,
		Data:      []models.Transaction{tx(t, "2024-01-01", "A")},
		SheetInfo: []models.SheetInfo{{Name: "עסקאות בארץ", Count: 1}},
		Skipped:   models.SkipStats{Invalid: 1, Duplicates: 2},
	})
	s.Add(models.ParseResult{Success: false, Error: "boom"})

	var out bytes.Buffer
	PrintSummary(&out, s)
	assert.Equal(t, "Files: 2 processed, 1 failed\n"+
		"Imported 1 transactions into ledger.csv\n"+
		"  sheet עסקאות בארץ: 1\n"+
		"Skipped 3 rows (invalid: 1, card filtered: 0, duplicates: 2)\n", out.String())
}
