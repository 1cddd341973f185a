// Package tabular decodes delimited text and spreadsheet exports into rows of raw cells.
package tabular

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the decoding path for a file.
type Kind int

const (
	KindUnknown Kind = iota
	KindDelimited
	KindSpreadsheet
)

func (k Kind) String() string {
	switch k {
	case KindDelimited:
		return "delimited"
	case KindSpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// Cell is a raw value: string, float64 or time.Time.
type Cell = any

// Row is an ordered list of cells.
type Row []Cell

// Sheet holds the decoded rows of one worksheet. Delimited files yield a single unnamed sheet.
type Sheet struct {
	Name string
	Rows []Row
}

// Empty reports whether the sheet lacks a header and at least one data row.
func (s Sheet) Empty() bool {
	return len(s.Rows) < 2
}

// Workbook is the decoded content of one file.
type Workbook struct {
	Kind   Kind
	Sheets []Sheet
}

// Options control decoding.
type Options struct {
	Extension string // lower-case, without dot; selects the legacy .xls reader
	Delimiter rune   // delimited text only; defaults to ','
	Encoding  string // delimited text only; charset used when the bytes are not UTF-8
	// SelectSheet filters spreadsheet sheets by position and name; nil keeps all
	SelectSheet func(index int, name string) bool
}

// Read decodes r according to kind.
func Read(kind Kind, r io.Reader, opts Options) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading content: %w", err)
	}

	switch kind {
	case KindDelimited:
		sheet, err := readDelimited(data, opts)
		if err != nil {
			return nil, err
		}
		return &Workbook{Kind: kind, Sheets: []Sheet{sheet}}, nil
	case KindSpreadsheet:
		var sheets []Sheet
		if opts.Extension == "xls" {
			sheets, err = readXLS(data, opts)
		} else {
			sheets, err = readXLSX(data, opts)
		}
		if err != nil {
			return nil, err
		}
		return &Workbook{Kind: kind, Sheets: sheets}, nil
	default:
		return nil, fmt.Errorf("unsupported file kind: %s", kind)
	}
}

// DropIrregular keeps only rows with exactly width cells.
func DropIrregular(rows []Row, width int) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if len(r) == width {
			out = append(out, r)
		}
	}
	return out
}

// IsBlankRow reports whether every cell of the row is empty.
func IsBlankRow(row Row) bool {
	for _, c := range row {
		if CellString(c) != "" {
			return false
		}
	}
	return true
}

// CellString renders a cell as trimmed text.
func CellString(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// At returns the cell at index i, or nil when the row is shorter or i is negative.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// numericCell turns numeric spreadsheet text into float64 so date serials and amounts
// keep their type. Values with leading zeros, more than 15 digits or a non-finite
// value ("inf", "NaN") stay text.
func numericCell(s string) Cell {
	t := strings.TrimSpace(s)
	if t == "" || len(t) > 15 {
		return s
	}
	if len(t) > 1 && t[0] == '0' && t[1] != '.' {
		return s
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	return f
}
