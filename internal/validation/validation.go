// Package validation checks format descriptors and command inputs before they are used.
package validation

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"
	"fjacquet/statement-import/internal/tabular"
)

var knownFields = func() map[models.Field]bool {
	m := make(map[models.Field]bool)
	for _, f := range models.RequiredFields {
		m[f] = true
	}
	for _, f := range models.OptionalFields {
		m[f] = true
	}
	return m
}()

// ValidateDescriptor returns every problem found in desc joined into one error.
// Credit-card formats may leave required fields unmapped since their columns are
// found by keyword.
func ValidateDescriptor(desc *models.FormatDescriptor) error {
	if desc == nil {
		return &parsererror.ValidationError{Subject: "format", Reason: "descriptor is nil"}
	}

	subject := "format"
	if desc.Name != "" {
		subject = fmt.Sprintf("format '%s'", desc.Name)
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, &parsererror.ValidationError{Subject: subject, Reason: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(desc.Name) == "" {
		fail("name is required")
	}

	for f := range desc.Mapping {
		if !knownFields[f] {
			fail("unknown mapping field %q", f)
		}
	}
	if !desc.CreditCardFormat {
		for _, f := range models.RequiredFields {
			if desc.Column(f) == "" {
				fail("mapping for required field %q is missing", f)
			}
		}
	}

	if desc.Delimiter != "" && desc.Delimiter != `\t` && utf8.RuneCountInString(desc.Delimiter) != 1 {
		fail("delimiter must be a single character, got %q", desc.Delimiter)
	}
	if _, err := tabular.LookupEncoding(desc.Encoding); err != nil {
		fail("%v", err)
	}
	switch desc.DecimalSeparator {
	case "", ".", ",":
	default:
		fail("decimal separator must be '.' or ',', got %q", desc.DecimalSeparator)
	}
	if desc.HeaderRowIndex != nil && *desc.HeaderRowIndex < 0 {
		fail("header row index must not be negative")
	}
	if desc.DateFormat != "" && !validDatePattern(desc.DateFormat) {
		fail("date format %q must contain day, month and year tokens (dd, MM, yy)", desc.DateFormat)
	}

	switch desc.SheetSelection.Mode {
	case "", models.SheetsAll, models.SheetsFirst:
	case models.SheetsSpecific:
		if len(desc.SheetSelection.Names) == 0 {
			fail("sheet selection 'specific' needs at least one sheet name")
		}
	default:
		fail("unknown sheet selection mode %q", desc.SheetSelection.Mode)
	}

	if ti := desc.TypeIdentifier; ti != nil && ti.Column == "" && desc.Column(models.FieldType) == "" &&
		(len(ti.IncomeValues) > 0 || len(ti.ExpenseValues) > 0) {
		fail("type values are set but no type column is mapped")
	}

	return errors.Join(errs...)
}

func validDatePattern(p string) bool {
	l := strings.ToLower(p)
	return strings.Contains(l, "d") && strings.Contains(p, "M") && strings.Contains(l, "yy")
}

// IsValidPath checks if a given path exists and is accessible.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}
	return nil
}
