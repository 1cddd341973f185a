// Package textutils cleans free text taken from export cells.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultDescriptionLength caps stored descriptions.
const DefaultDescriptionLength = 200

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`אסמכתא:?\s*(\d[\d-]*)`),
	regexp.MustCompile(`(?i)Reference:?\s*([A-Z0-9][A-Z0-9-]*)`),
	regexp.MustCompile(`(?i)Ref\.?:\s*([A-Z0-9][A-Z0-9-]*)`),
}

// CleanDescription drops control and bidi marks, collapses whitespace and caps the
// result at maxRunes runes. A non-positive maxRunes uses the default.
func CleanDescription(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultDescriptionLength
	}
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Bidi_Control, r) || r == '\ufeff' {
			return -1
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	return Truncate(s, maxRunes)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

// ExtractReference finds a bank reference embedded in free text.
func ExtractReference(text string) string {
	for _, re := range referencePatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
