// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/statement-import/internal/cardfilter"
	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/report"
)

// ImportOptions are the inputs shared by the import and batch commands.
type ImportOptions struct {
	Input    string
	Output   string
	Format   string
	Existing string   // ledger whose records count as already stored
	Append   bool     // keep the records already in Output and dedupe against them
	Allowed  []string // card allow-list override
	Blocked  []string // card block-list override
	Report   string   // optional JSON or YAML run report
}

// Summary aggregates the outcome of one or more imports.
type Summary struct {
	Files    int
	Failed   int
	Imported int
	Skipped  models.SkipStats
	Sheets   []models.SheetInfo
	Output   string
}

// Add folds one import result into the summary.
func (s *Summary) Add(r models.ParseResult) {
	s.Files++
	if !r.Success {
		s.Failed++
		return
	}
	s.Imported += len(r.Data)
	s.Skipped.Invalid += r.Skipped.Invalid
	s.Skipped.CardFiltered += r.Skipped.CardFiltered
	s.Skipped.Duplicates += r.Skipped.Duplicates
	s.Sheets = append(s.Sheets, r.SheetInfo...)
}

// Baseline holds the records an import dedupes against.
type Baseline struct {
	Existing []models.Transaction // from --existing plus, in append mode, the output ledger
	Kept     []models.Transaction // records already in the output ledger that are written back
}

// LoadBaseline reads the existing ledger and, in append mode, the output ledger. Writing
// to the existing ledger itself always appends so its records are never dropped.
func LoadBaseline(opts ImportOptions, log logging.Logger) (Baseline, error) {
	var b Baseline
	if opts.Existing != "" {
		if !fileutils.FileExists(opts.Existing) {
			return b, fmt.Errorf("existing ledger not found: %s", opts.Existing)
		}
		txs, err := common.ReadTransactions(opts.Existing, log)
		if err != nil {
			return b, err
		}
		b.Existing = append(b.Existing, txs...)
	}

	sameLedger := opts.Existing != "" && samePath(opts.Output, opts.Existing)
	if sameLedger && !opts.Append {
		log.Info("Output is the existing ledger, appending", logging.F(logging.FieldFile, opts.Output))
	}
	if (opts.Append || sameLedger) && opts.Output != "" {
		if sameLedger {
			b.Kept = append([]models.Transaction(nil), b.Existing...)
			return b, nil
		}
		txs, err := common.ReadTransactions(opts.Output, log)
		if err != nil {
			return b, err
		}
		b.Kept = txs
		b.Existing = append(b.Existing, txs...)
	}
	return b, nil
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// CardPolicy returns the card filter for a run: the command-line lists when given,
// otherwise the configured policy.
func CardPolicy(c *container.Container, allowed, blocked []string) *cardfilter.Policy {
	if len(allowed) == 0 && len(blocked) == 0 {
		return c.GetCardPolicy()
	}
	return cardfilter.FromLists(allowed, blocked)
}

// DefaultOutput derives the ledger path for an input file when none is given.
func DefaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".transactions.csv"
}

// WriteLedger writes kept followed by imported to path.
func WriteLedger(kept, imported []models.Transaction, path string, log logging.Logger) error {
	all := make([]models.Transaction, 0, len(kept)+len(imported))
	all = append(all, kept...)
	all = append(all, imported...)
	if err := common.WriteTransactionsToCSV(all, path, log); err != nil {
		return fmt.Errorf("error writing ledger: %w", err)
	}
	return nil
}

// PrintSummary writes a human-readable report of s to w.
func PrintSummary(w io.Writer, s Summary) {
	if s.Files > 1 || s.Failed > 0 {
		_, _ = fmt.Fprintf(w, "Files: %d processed, %d failed\n", s.Files, s.Failed)
	}
	_, _ = fmt.Fprintf(w, "Imported %d transactions", s.Imported)
	if s.Output != "" {
		_, _ = fmt.Fprintf(w, " into %s", s.Output)
	}
	_, _ = fmt.Fprintln(w)
	for _, sheet := range s.Sheets {
		_, _ = fmt.Fprintf(w, "  sheet %s: %d\n", sheet.Name, sheet.Count)
	}
	if s.Skipped.Total() > 0 {
		_, _ = fmt.Fprintf(w, "Skipped %d rows (invalid: %d, card filtered: %d, duplicates: %d)\n",
			s.Skipped.Total(), s.Skipped.Invalid, s.Skipped.CardFiltered, s.Skipped.Duplicates)
	}
}

// SaveReport writes rep to opts.Report when a report path was requested.
func SaveReport(rep *report.Report, opts ImportOptions, log logging.Logger) error {
	if opts.Report == "" {
		return nil
	}
	return report.NewGenerator(log).WriteFile(rep, opts.Report)
}
