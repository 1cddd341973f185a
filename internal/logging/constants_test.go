package logging

import (
	"testing"
)

func TestConstants(t *testing.T) {
	for _, name := range []string{FieldFile, FieldFormat, FieldSheet, FieldImportID, FieldCount, FieldReason} {
		if name == "" {
			t.Error("field name constant should not be empty")
		}
	}
}
