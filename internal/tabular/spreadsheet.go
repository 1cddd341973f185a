package tabular

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

func selected(opts Options, i int, name string) bool {
	return opts.SelectSheet == nil || opts.SelectSheet(i, name)
}

// xlsMonthRender matches the "2006.01" text extrame/xls produces for cells with a
// built-in date format. The day is not recoverable from it.
var xlsMonthRender = regexp.MustCompile(`^(19|20)\d{2}\.(0[1-9]|1[0-2]?)$`)

// readXLSX decodes OOXML workbooks (xlsx, xlsm). Binary .xlsb is not readable by
// excelize and fails here as an unreadable workbook.
func readXLSX(data []byte, opts Options) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var sheets []Sheet
	for i, name := range f.GetSheetList() {
		if !selected(opts, i, name) {
			continue
		}
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("error reading sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: toRows(raw, numericCell)})
	}
	return sheets, nil
}

// readXLS decodes legacy BIFF workbooks.
func readXLS(data []byte, opts Options) (sheets []Sheet, err error) {
	// the BIFF reader panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			sheets, err = nil, fmt.Errorf("error opening workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil || !selected(opts, i, ws.Name) {
			continue
		}
		var raw [][]string
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := xlsRow(ws, r)
			if row == nil {
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			raw = append(raw, cells)
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Rows: toRows(raw, xlsCell)})
	}
	return sheets, nil
}

// xlsRow returns row i, or nil when the sheet has no record for it; WorkSheet.Row
// dereferences missing rows.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// xlsCell types a cell rendered by extrame/xls. Cells with a user-defined number format
// come back as RFC3339 timestamps of their serial value; they become time.Time so the
// date and amount normalizers can recover the number.
func xlsCell(s string) Cell {
	t := strings.TrimSpace(s)
	if len(t) >= len("2006-01-02T15:04:05Z") && strings.IndexByte(t, 'T') == 10 {
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts.UTC()
		}
	}
	return numericCell(s)
}

// IsXLSMonthRender reports whether c is the month-only text a legacy .xls date cell
// decodes to.
func IsXLSMonthRender(c Cell) bool {
	return xlsMonthRender.MatchString(CellString(c))
}

// toRows drops blank rows and types cells with conv.
func toRows(raw [][]string, conv func(string) Cell) []Row {
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		row := make(Row, len(r))
		for i, v := range r {
			row[i] = conv(v)
		}
		if !IsBlankRow(row) {
			rows = append(rows, row)
		}
	}
	return rows
}
