package logging

// Standardized field names for structured logging.
const (
	FieldFile      = "file_path"
	FieldFormat    = "format"
	FieldSheet     = "sheet"
	FieldImportID  = "import_id"
	FieldRow       = "row"
	FieldReason    = "reason"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldCount     = "count"
	FieldSkipped   = "skipped"
	FieldDelimiter = "delimiter"
	FieldComponent = "component"
	FieldHeaderRow = "header_row"
)
