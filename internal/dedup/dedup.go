// Package dedup recognises records that were already imported.
package dedup

import (
	"fmt"
	"strings"

	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/models"
)

// Detector tracks the identity keys of known records for one import run. It is not safe
// for concurrent use.
type Detector struct {
	// simple key -> true when at least one record with that key had no disambiguator
	simple   map[string]bool
	extended map[string]struct{}
}

// NewDetector creates a detector seeded with previously stored transactions. The slice
// is only read.
func NewDetector(existing []models.Transaction) *Detector {
	d := &Detector{
		simple:   make(map[string]bool, len(existing)),
		extended: make(map[string]struct{}, len(existing)),
	}
	for i := range existing {
		d.Add(&existing[i])
	}
	return d
}

// SimpleKey is the coarse identity of a record.
func SimpleKey(tx *models.Transaction) string {
	return strings.Join([]string{
		tx.Date,
		currencyutils.FormatAmount(tx.Amount),
		strings.TrimSpace(tx.Description),
		string(tx.Type),
	}, "|")
}

// ExtendedKey adds the disambiguating fields to the simple key. It returns "" when the
// record carries none of them.
func ExtendedKey(tx *models.Transaction) string {
	var parts []string
	if tx.TransactionCode != "" {
		parts = append(parts, "code="+tx.TransactionCode)
	}
	if tx.CardNumber != "" {
		parts = append(parts, "card="+tx.CardNumber)
	}
	if d := tx.InstallmentDetails; tx.IsInstallment && d != nil {
		parts = append(parts, fmt.Sprintf("inst=%d/%d", d.InstallmentNumber, d.TotalInstallments))
	}
	if len(parts) == 0 {
		return ""
	}
	return SimpleKey(tx) + "|" + strings.Join(parts, "|")
}

// IsDuplicate reports whether tx collides with a known record. A record carrying a
// disambiguator only collides with an identical extended key or with a bare record
// sharing its simple key; a bare record collides with any record sharing its simple key.
func (d *Detector) IsDuplicate(tx *models.Transaction) bool {
	simple := SimpleKey(tx)
	bare, seen := d.simple[simple]
	if !seen {
		return false
	}

	ext := ExtendedKey(tx)
	if ext == "" {
		return true
	}
	if bare {
		return true
	}
	_, dup := d.extended[ext]
	return dup
}

// Add records tx as known.
func (d *Detector) Add(tx *models.Transaction) {
	simple := SimpleKey(tx)
	ext := ExtendedKey(tx)
	if ext == "" {
		d.simple[simple] = true
		return
	}
	if _, ok := d.simple[simple]; !ok {
		d.simple[simple] = false
	}
	d.extended[ext] = struct{}{}
}

// Admit adds tx and returns true unless it is a duplicate.
func (d *Detector) Admit(tx *models.Transaction) bool {
	if d.IsDuplicate(tx) {
		return false
	}
	d.Add(tx)
	return true
}

// Len returns the number of distinct simple keys seen.
func (d *Detector) Len() int {
	return len(d.simple)
}
