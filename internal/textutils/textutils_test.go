package textutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"trims and collapses", "  Coffee \t  Shop\n", 0, "Coffee Shop"},
		{"drops bidi marks", "\u200fשופרסל\u200e דיל\ufeff", 0, "שופרסל דיל"},
		{"caps runes", "אבגדהוזח", 3, "אבג"},
		{"empty", "   ", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanDescription(tt.input, tt.max))
		})
	}
}

func TestCleanDescription_DefaultCap(t *testing.T) {
	long := strings.Repeat("x", 500)
	assert.Len(t, CleanDescription(long, 0), DefaultDescriptionLength)
}

func TestExtractReference(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"העברה אסמכתא: 123-456", "123-456"},
		{"Payment Reference: AB12-9", "AB12-9"},
		{"ref.: X77", "X77"},
		{"nothing here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractReference(tt.text))
		})
	}
}
