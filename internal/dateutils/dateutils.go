// Package dateutils converts raw date cells from bank and card exports into calendar dates.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fjacquet/statement-import/internal/models"

	"github.com/xuri/excelize/v2"
)

// Date layout constants
const (
	DateLayoutISO = models.ISODateLayout
)

// SupportedPatterns are the text formats tried, in order, after the format's own pattern.
var SupportedPatterns = []string{
	"dd/MM/yyyy",
	"dd/MM/yy",
	"yyyy-MM-dd",
	"dd-MM-yyyy",
	"dd-MM-yy",
	"dd.MM.yyyy",
	"dd.MM.yy",
}

var (
	isoPrefix    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
	dateNoise    = regexp.MustCompile(`[^0-9/.\-]`)
	looseDMY     = regexp.MustCompile(`(\d{1,2})[-./](\d{1,2})[-./](\d{2,4})`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeCell converts a raw cell into a YYYY-MM-DD string. It returns "" when the
// cell cannot be read as a date. The descriptor may be nil.
func NormalizeCell(cell any, desc *models.FormatDescriptor) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return ToISODate(v)
	case float64:
		return FromSerial(v)
	case int:
		return FromSerial(float64(v))
	case int64:
		return FromSerial(float64(v))
	case string:
		pattern := ""
		if desc != nil {
			pattern = desc.DateFormat
		}
		return NormalizeText(v, pattern)
	default:
		return NormalizeText(fmt.Sprint(v), "")
	}
}

// FromSerial interprets a spreadsheet serial day number.
func FromSerial(serial float64) string {
	if serial <= 0 {
		return ""
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return ""
	}
	return ToISODate(t)
}

// NormalizeText parses free text, trying pattern first when it is set.
func NormalizeText(raw, pattern string) string {
	raw = CleanDateString(raw)
	if raw == "" {
		return ""
	}

	if m := isoPrefix.FindStringSubmatch(raw); m != nil {
		if valid(m[1]) {
			return m[1]
		}
	}

	stripped := dateNoise.ReplaceAllString(raw, "")
	if stripped == "" {
		return ""
	}

	patterns := SupportedPatterns
	if pattern != "" {
		patterns = append([]string{pattern}, SupportedPatterns...)
	}
	for _, p := range patterns {
		if t, ok := parseWithPattern(stripped, p); ok {
			return ToISODate(t)
		}
	}

	return fromLooseMatch(stripped)
}

// LayoutFromPattern converts a dd/MM/yyyy style pattern into a Go layout. Day and month
// accept one or two digits.
func LayoutFromPattern(pattern string) string {
	r := strings.NewReplacer(
		"yyyy", "2006", "YYYY", "2006",
		"yy", "06", "YY", "06",
		"MM", "1", "M", "1",
		"dd", "2", "DD", "2", "d", "2",
	)
	return r.Replace(pattern)
}

func parseWithPattern(value, pattern string) (time.Time, bool) {
	layout := LayoutFromPattern(pattern)
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, false
	}
	if !strings.Contains(layout, "2006") && strings.Contains(layout, "06") && t.Year() < 2000 {
		t = t.AddDate(100, 0, 0)
	}
	return t, true
}

func fromLooseMatch(value string) string {
	m := looseDMY.FindStringSubmatch(value)
	if m == nil {
		return ""
	}
	day, month, year := pad2(m[1]), pad2(m[2]), m[3]
	if len(year) == 2 {
		year = "20" + year
	}
	if len(year) != 4 {
		return ""
	}
	iso := year + "-" + month + "-" + day
	if !valid(iso) {
		return ""
	}
	return iso
}

func pad2(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%02d", n)
}

func valid(iso string) bool {
	_, err := time.Parse(DateLayoutISO, iso)
	return err == nil
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims and collapses whitespace
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return whitespaceRe.ReplaceAllString(dateStr, " ")
}
