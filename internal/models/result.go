package models

// SheetInfo records how many records were accepted from one sheet.
type SheetInfo struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// SkipStats counts rows that were not turned into records.
type SkipStats struct {
	Invalid      int `json:"invalid" yaml:"invalid"`            // unparseable date, zero amount, empty description, blank row
	CardFiltered int `json:"cardFiltered" yaml:"card_filtered"` // rejected by the card policy
	Duplicates   int `json:"duplicates" yaml:"duplicates"`      // collided with an existing or earlier record
}

// Total returns the number of skipped rows.
func (s SkipStats) Total() int {
	return s.Invalid + s.CardFiltered + s.Duplicates
}

// ParseResult is the outcome of one import invocation.
type ParseResult struct {
	Success   bool          `json:"success" yaml:"success"`
	Data      []Transaction `json:"data" yaml:"data"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	Sheets    []string      `json:"sheets,omitempty" yaml:"sheets,omitempty"`
	SheetInfo []SheetInfo   `json:"sheetInfo,omitempty" yaml:"sheet_info,omitempty"`
	ImportID  string        `json:"importId" yaml:"import_id"`
	Skipped   SkipStats     `json:"skipped" yaml:"skipped"`
}

// Failure builds an unsuccessful result carrying err's message.
func Failure(importID string, err error) ParseResult {
	return ParseResult{
		Success:  false,
		Error:    err.Error(),
		ImportID: importID,
	}
}
