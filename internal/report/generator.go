// Package report renders machine-readable summaries of import runs.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DateRange spans the record dates of an import. ISO dates order lexically.
type DateRange struct {
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`
}

// Merge widens the range to include other.
func (dr DateRange) Merge(other DateRange) DateRange {
	if dr.Start == "" {
		return other
	}
	if other.Start == "" {
		return dr
	}
	if other.Start < dr.Start {
		dr.Start = other.Start
	}
	if other.End > dr.End {
		dr.End = other.End
	}
	return dr
}

func (dr DateRange) String() string {
	if dr.Start == "" {
		return "-"
	}
	return dr.Start + " to " + dr.End
}

// RangeOf returns the date range covered by txs.
func RangeOf(txs []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range txs {
		dr = dr.Merge(DateRange{Start: tx.Date, End: tx.Date})
	}
	return dr
}

// NetOf returns the signed sum of txs: income counts positive, expenses negative.
func NetOf(txs []models.Transaction) decimal.Decimal {
	net := decimal.Zero
	for i := range txs {
		net = net.Add(txs[i].SignedAmount())
	}
	return net
}

// FileReport is the outcome of one file.
type FileReport struct {
	File      string             `json:"file" yaml:"file"`
	ImportID  string             `json:"importId" yaml:"import_id"`
	Success   bool               `json:"success" yaml:"success"`
	Error     string             `json:"error,omitempty" yaml:"error,omitempty"`
	Imported  int                `json:"imported" yaml:"imported"`
	Net       string             `json:"net" yaml:"net"`
	Skipped   models.SkipStats   `json:"skipped" yaml:"skipped"`
	Sheets    []models.SheetInfo `json:"sheets,omitempty" yaml:"sheets,omitempty"`
	DateRange DateRange          `json:"dateRange" yaml:"date_range"`
}

// Report covers a whole command run.
type Report struct {
	Format    string           `json:"format" yaml:"format"`
	Output    string           `json:"output,omitempty" yaml:"output,omitempty"`
	Imported  int              `json:"imported" yaml:"imported"`
	Failed    int              `json:"failed" yaml:"failed"`
	Net       string           `json:"net" yaml:"net"`
	Skipped   models.SkipStats `json:"skipped" yaml:"skipped"`
	DateRange DateRange        `json:"dateRange" yaml:"date_range"`
	Files     []FileReport     `json:"files" yaml:"files"`

	net decimal.Decimal
}

// Add records the result of importing file.
func (r *Report) Add(file string, res models.ParseResult) {
	fr := FileReport{
		File:     filepath.Base(file),
		ImportID: res.ImportID,
		Success:  res.Success,
		Error:    res.Error,
		Imported: len(res.Data),
		Skipped:  res.Skipped,
		Sheets:   res.SheetInfo,
	}
	if res.Success {
		net := NetOf(res.Data)
		fr.Net = net.StringFixed(2)
		r.net = r.net.Add(net)
		fr.DateRange = RangeOf(res.Data)
		r.Imported += fr.Imported
		r.Skipped.Invalid += res.Skipped.Invalid
		r.Skipped.CardFiltered += res.Skipped.CardFiltered
		r.Skipped.Duplicates += res.Skipped.Duplicates
		r.DateRange = r.DateRange.Merge(fr.DateRange)
	} else {
		r.Failed++
	}
	r.Net = r.net.StringFixed(2)
	r.Files = append(r.Files, fr)
}

// Generator renders reports as JSON or YAML.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{logger: logger.WithField(logging.FieldComponent, "report")}
}

// Generate renders the report in the given format ("json" or "yaml").
func (g *Generator) Generate(r *Report, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFile renders the report in the format implied by path's extension, JSON by default.
func (g *Generator) WriteFile(r *Report, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format != "yaml" && format != "yml" {
		format = "json"
	}
	data, err := g.Generate(r, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	g.logger.Debug("Report written", logging.F(logging.FieldFile, path))
	return nil
}
