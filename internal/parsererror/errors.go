// Package parsererror defines the structural error types of the import engine.
// Row-level problems are never reported through these types; they are counted and skipped.
package parsererror

import (
	"fmt"
	"strings"
)

// ParseError represents a failure to interpret a single value.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents an invalid format descriptor or configuration value.
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
}

// UnsupportedExtensionError is returned before decoding when the file kind is unknown.
type UnsupportedExtensionError struct {
	FileName  string
	Extension string
}

func (e *UnsupportedExtensionError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file type for '%s': missing extension (expected .csv, .xls, .xlsx, .xlsb or .xlsm)", e.FileName)
	}
	return fmt.Sprintf("unsupported file type '.%s' for '%s' (expected .csv, .xls, .xlsx, .xlsb or .xlsm)", e.Extension, e.FileName)
}

// FileTooLargeError is returned before decoding when the input exceeds the size ceiling.
type FileTooLargeError struct {
	FileName string
	Size     int64
	Limit    int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file '%s' is too large: %d bytes exceeds the limit of %d bytes", e.FileName, e.Size, e.Limit)
}

// EmptyContentError signals that decoding produced no usable rows.
type EmptyContentError struct {
	FileName string
	Reason   string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("file '%s' contains no data: %s", e.FileName, e.Reason)
}

// InvalidFormatError represents an input that could not be decoded at all.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s: %v",
			e.FilePath, e.Msg, e.ExpectedFormat, e.Err)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// MissingColumnsError reports required fields that header resolution could not locate.
// Found lists which of the required fields were located, so the user can fix the mapping.
type MissingColumnsError struct {
	Sheet   string
	Found   []string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	found := "none"
	if len(e.Found) > 0 {
		found = strings.Join(e.Found, ", ")
	}
	msg := fmt.Sprintf("missing required columns: %s (found: %s)", strings.Join(e.Missing, ", "), found)
	if e.Sheet != "" {
		return fmt.Sprintf("sheet '%s': %s", e.Sheet, msg)
	}
	return msg
}

// ImportDeniedError is returned when the caller's capability gate refuses the import.
type ImportDeniedError struct {
	Reason string
}

func (e *ImportDeniedError) Error() string {
	if e.Reason == "" {
		return "import not permitted"
	}
	return "import not permitted: " + e.Reason
}
