package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func tx(date string) models.Transaction {
	return models.Transaction{Date: date, Amount: decimal.NewFromInt(1), Description: "x", Type: models.TypeExpense}
}

func sampleReport() *Report {
	r := &Report{Format: "max", Output: "ledger.csv"}
	r.Add("in/march.xlsx", models.ParseResult{
		Success:   true,
		ImportID:  "id-1",
		Data:      []models.Transaction{tx("2024-03-10"), tx("2024-03-02")},
		SheetInfo: []models.SheetInfo{{Name: "עסקאות בארץ", Count: 2}},
		Skipped:   models.SkipStats{Duplicates: 1},
	})
	salary := tx("2024-04-01")
	salary.Amount = decimal.NewFromInt(10)
	salary.Type = models.TypeIncome
	r.Add("in/april.xlsx", models.ParseResult{
		Success:  true,
		ImportID: "id-2",
		Data:     []models.Transaction{salary},
		Skipped:  models.SkipStats{Invalid: 2},
	})
	r.Add("in/notes.csv", models.ParseResult{Success: false, ImportID: "id-3", Error: "file 'notes.csv' contains no data: file is empty"})
	return r
}

func TestReport_Add(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, 3, r.Imported)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, "8.00", r.Net)
	assert.Equal(t, models.SkipStats{Invalid: 2, Duplicates: 1}, r.Skipped)
	assert.Equal(t, DateRange{Start: "2024-03-02", End: "2024-04-01"}, r.DateRange)
	assert.Equal(t, "2024-03-02 to 2024-04-01", r.DateRange.String())

	require.Len(t, r.Files, 3)
	assert.Equal(t, "march.xlsx", r.Files[0].File)
	assert.Equal(t, DateRange{Start: "2024-03-02", End: "2024-03-10"}, r.Files[0].DateRange)
	assert.Equal(t, "-2.00", r.Files[0].Net)
	assert.Equal(t, "10.00", r.Files[1].Net)
	assert.Empty(t, r.Files[2].Net)
	assert.False(t, r.Files[2].Success)
	assert.Equal(t, "-", r.Files[2].DateRange.String())
}

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())
	r := sampleReport()

	data, err := g.Generate(r, "json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(3), decoded["imported"])
	assert.Equal(t, "max", decoded["format"])
	assert.Equal(t, "8.00", decoded["net"])

	data, err = g.Generate(r, "yaml")
	require.NoError(t, err)
	var back Report
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, r.DateRange, back.DateRange)
	assert.Equal(t, r.Files[0].Sheets, back.Files[0].Sheets)

	_, err = g.Generate(r, "xml")
	assert.EqualError(t, err, "unsupported report format: xml")
}

func TestGenerator_WriteFile(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(nil)

	jsonPath := filepath.Join(dir, "run.json")
	require.NoError(t, g.WriteFile(sampleReport(), jsonPath))
	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"importId": "id-1"`)

	yamlPath := filepath.Join(dir, "run.yml")
	require.NoError(t, g.WriteFile(sampleReport(), yamlPath))
	raw, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "import_id: id-1")
}
