// Package headerresolver locates the header row of an export and maps semantic fields to
// column indexes.
package headerresolver

import (
	"strings"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"
	"fjacquet/statement-import/internal/tabular"

	"golang.org/x/text/unicode/norm"
)

// DefaultScanRows bounds the header search in credit-card exports.
const DefaultScanRows = 15

var (
	dateTokens   = []string{"תאריך", "date"}
	amountTokens = []string{"סכום", "amount"}
	invisible    = strings.NewReplacer("\u200e", "", "\u200f", "", "\ufeff", "", "\u00a0", " ", "\"", "", "'", "")
)

// Resolution is the outcome of header resolution for one sheet.
type Resolution struct {
	HeaderRow int
	Headers   []string
	Columns   map[models.Field]int
}

// Index returns the column of a field and whether it was resolved.
func (r *Resolution) Index(f models.Field) (int, bool) {
	if r == nil {
		return -1, false
	}
	i, ok := r.Columns[f]
	return i, ok
}

// Has reports whether a field was resolved.
func (r *Resolution) Has(f models.Field) bool {
	_, ok := r.Index(f)
	return ok
}

// Resolver finds header rows and columns.
type Resolver struct {
	scanRows int
	logger   logging.Logger
}

// NewResolver creates a resolver scanning at most scanRows rows for credit-card headers.
func NewResolver(scanRows int, logger logging.Logger) *Resolver {
	if scanRows <= 0 {
		scanRows = DefaultScanRows
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{scanRows: scanRows, logger: logger}
}

// Resolve returns the header row and column map. It fails with a
// *parsererror.MissingColumnsError when date, amount or description cannot be located.
func (r *Resolver) Resolve(rows []tabular.Row, desc *models.FormatDescriptor) (*Resolution, error) {
	headerRow := r.headerRow(rows, desc)
	if headerRow >= len(rows) {
		return nil, missing(nil)
	}

	headers := make([]string, len(rows[headerRow]))
	for i, c := range rows[headerRow] {
		headers[i] = Normalize(tabular.CellString(c))
	}

	columns := make(map[models.Field]int)
	resolveMapped(headers, desc, columns)
	if desc != nil && desc.CreditCardFormat {
		resolveByKeywords(headers, columns)
	}

	res := &Resolution{HeaderRow: headerRow, Headers: headers, Columns: columns}
	var found []string
	for _, f := range models.RequiredFields {
		if res.Has(f) {
			found = append(found, string(f))
		}
	}
	if len(found) < len(models.RequiredFields) {
		return nil, missing(found)
	}

	r.logger.Debug("Resolved header columns",
		logging.F(logging.FieldHeaderRow, headerRow),
		logging.F(logging.FieldCount, len(columns)))
	return res, nil
}

func (r *Resolver) headerRow(rows []tabular.Row, desc *models.FormatDescriptor) int {
	if desc != nil && desc.HeaderRowIndex != nil && *desc.HeaderRowIndex >= 0 {
		return *desc.HeaderRowIndex
	}
	if desc == nil || !desc.CreditCardFormat {
		return 0
	}
	for i := 0; i < len(rows) && i < r.scanRows; i++ {
		if LooksLikeHeader(rows[i]) {
			if i > 0 {
				r.logger.Debug("Skipped preamble rows before header", logging.F(logging.FieldHeaderRow, i))
			}
			return i
		}
	}
	return 0
}

// LooksLikeHeader reports whether the concatenated row text carries both a date token
// and an amount token.
func LooksLikeHeader(row tabular.Row) bool {
	var b strings.Builder
	for _, c := range row {
		b.WriteString(Normalize(tabular.CellString(c)))
		b.WriteByte(' ')
	}
	text := b.String()
	return containsAny(text, dateTokens) && containsAny(text, amountTokens)
}

// Normalize lower-cases, NFC-normalises and strips invisible marks from a header cell.
func Normalize(s string) string {
	s = invisible.Replace(s)
	s = norm.NFC.String(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// resolveMapped matches mapped column names: exact first, then substring.
func resolveMapped(headers []string, desc *models.FormatDescriptor, columns map[models.Field]int) {
	if desc == nil {
		return
	}
	fields := append(append([]models.Field{}, models.RequiredFields...), models.OptionalFields...)
	for _, f := range fields {
		name := desc.Column(f)
		if f == models.FieldType {
			name = desc.TypeColumn()
		}
		if name == "" {
			continue
		}
		if i := Match(headers, name); i >= 0 {
			columns[f] = i
		}
	}
}

// Match returns the index of the header equal to name, else the first header containing
// it, else -1. Headers must already be normalised.
func Match(headers []string, name string) int {
	want := Normalize(name)
	if want == "" {
		return -1
	}
	for i, h := range headers {
		if h == want {
			return i
		}
	}
	for i, h := range headers {
		if h != "" && strings.Contains(h, want) {
			return i
		}
	}
	return -1
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func missing(found []string) error {
	isFound := make(map[string]bool, len(found))
	for _, f := range found {
		isFound[f] = true
	}
	var miss []string
	for _, f := range models.RequiredFields {
		if !isFound[string(f)] {
			miss = append(miss, string(f))
		}
	}
	return &parsererror.MissingColumnsError{Found: found, Missing: miss}
}
