// Package importer turns export files into canonical transactions. One Import call reads
// the file, resolves each sheet's header and extracts rows in a single sequential pass.
package importer

import (
	"bytes"
	"errors"
	"path/filepath"

	"fjacquet/statement-import/internal/cardfilter"
	"fjacquet/statement-import/internal/dedup"
	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/headerresolver"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"
	"fjacquet/statement-import/internal/tabular"
	"fjacquet/statement-import/internal/textutils"

	"github.com/google/uuid"
)

// Config holds the pipeline limits.
type Config struct {
	MaxFileSize       int64 // bytes; 0 disables the ceiling
	HeaderScanRows    int
	DescriptionLength int
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxFileSize:       fileutils.DefaultMaxFileSize,
		HeaderScanRows:    headerresolver.DefaultScanRows,
		DescriptionLength: textutils.DefaultDescriptionLength,
	}
}

// Request is one import invocation.
type Request struct {
	FileName string // drives the decoding path through its extension
	Data     []byte
	Format   *models.FormatDescriptor
	// Cards restricts rows by card number; nil admits every row
	Cards *cardfilter.Policy
	// Existing transactions are only read, never modified
	Existing []models.Transaction
}

// Pipeline runs imports. It holds no state between calls and may be shared.
type Pipeline struct {
	cfg      Config
	resolver *headerresolver.Resolver
	gate     Gate
	logger   logging.Logger
	newID    func() string
}

// NewPipeline creates a pipeline. A nil gate allows every import; a nil logger uses the
// default adapter.
func NewPipeline(cfg Config, gate Gate, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	if gate == nil {
		gate = AllowAll{}
	}
	if cfg.DescriptionLength <= 0 {
		cfg.DescriptionLength = textutils.DefaultDescriptionLength
	}
	return &Pipeline{
		cfg:      cfg,
		resolver: headerresolver.NewResolver(cfg.HeaderScanRows, logger),
		gate:     gate,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Import decodes req.Data and returns the accepted records. Structural problems are
// reported through ParseResult.Error; row problems are skipped and counted.
func (p *Pipeline) Import(req Request) models.ParseResult {
	id := p.newID()
	log := p.logger.WithFields(
		logging.F(logging.FieldImportID, id),
		logging.F(logging.FieldFile, req.FileName),
		logging.F(logging.FieldFormat, formatName(req.Format)),
	)

	kind, ext, err := p.precheck(req.FileName, int64(len(req.Data)))
	if err != nil {
		return p.fail(log, id, err)
	}
	if req.Format == nil {
		return p.fail(log, id, &parsererror.ValidationError{Subject: "format", Reason: "no format descriptor given"})
	}
	if len(bytes.TrimSpace(req.Data)) == 0 {
		return p.fail(log, id, &parsererror.EmptyContentError{FileName: filepath.Base(req.FileName), Reason: "file is empty"})
	}

	// Reading
	wb, err := tabular.Read(kind, bytes.NewReader(req.Data), tabular.Options{
		Extension:   ext,
		Delimiter:   req.Format.DelimiterRune(),
		Encoding:    req.Format.Encoding,
		SelectSheet: req.Format.SelectsSheet,
	})
	if err != nil {
		return p.fail(log, id, &parsererror.InvalidFormatError{
			FilePath:       filepath.Base(req.FileName),
			ExpectedFormat: kind.String(),
			Msg:            "file could not be read",
			Err:            err,
		})
	}

	result := models.ParseResult{Success: true, Data: []models.Transaction{}, ImportID: id}
	ex := newExtractor(p, req, kind, dedup.NewDetector(req.Existing), log)
	multiSheet := kind == tabular.KindSpreadsheet

	var nonEmpty, resolved int
	var resolveErr error
	for _, sheet := range wb.Sheets {
		if multiSheet {
			result.Sheets = append(result.Sheets, sheet.Name)
		}
		sheetLog := log.WithField(logging.FieldSheet, sheet.Name)
		if sheet.Empty() {
			sheetLog.Debug("Skipping empty sheet")
			continue
		}
		nonEmpty++

		// Resolving
		res, err := p.resolver.Resolve(sheet.Rows, req.Format)
		if err != nil {
			var mce *parsererror.MissingColumnsError
			if errors.As(err, &mce) && multiSheet {
				mce.Sheet = sheet.Name
			}
			resolveErr = err
			sheetLog.WithError(err).Warn("Could not resolve header columns")
			continue
		}
		resolved++

		// Extracting
		accepted := ex.extract(sheet, res, &result)
		if multiSheet {
			result.SheetInfo = append(result.SheetInfo, models.SheetInfo{Name: sheet.Name, Count: accepted})
		}
		sheetLog.Debug("Sheet processed", logging.F(logging.FieldCount, accepted))
	}

	if nonEmpty == 0 {
		reason := "no data rows found"
		if multiSheet {
			reason = "all selected sheets are empty"
		}
		return p.fail(log, id, &parsererror.EmptyContentError{FileName: filepath.Base(req.FileName), Reason: reason})
	}
	if resolved == 0 {
		return p.fail(log, id, resolveErr)
	}

	log.Info("Import completed",
		logging.F(logging.FieldCount, len(result.Data)),
		logging.F(logging.FieldSkipped, result.Skipped.Total()))
	return result
}

// ImportFile reads path and imports it. The gate, extension and size are checked before
// the file is read.
func (p *Pipeline) ImportFile(path string, format *models.FormatDescriptor, cards *cardfilter.Policy, existing []models.Transaction) models.ParseResult {
	if _, _, err := p.precheck(path, 0); err != nil {
		return p.fail(p.logger.WithField(logging.FieldFile, path), p.newID(), err)
	}
	data, err := fileutils.ReadLimited(path, p.cfg.MaxFileSize)
	if err != nil {
		return p.fail(p.logger.WithField(logging.FieldFile, path), p.newID(), err)
	}
	return p.Import(Request{
		FileName: filepath.Base(path),
		Data:     data,
		Format:   format,
		Cards:    cards,
		Existing: existing,
	})
}

// precheck runs the checks that must fail before any decoding.
func (p *Pipeline) precheck(name string, size int64) (tabular.Kind, string, error) {
	if !p.gate.CanImport() {
		denied := &parsererror.ImportDeniedError{}
		if r, ok := p.gate.(reasoner); ok {
			denied.Reason = r.DenyReason()
		}
		return tabular.KindUnknown, "", denied
	}
	kind, ext, err := fileutils.DetectKind(name)
	if err != nil {
		return kind, ext, err
	}
	if err := fileutils.CheckSize(name, size, p.cfg.MaxFileSize); err != nil {
		return kind, ext, err
	}
	return kind, ext, nil
}

func (p *Pipeline) fail(log logging.Logger, id string, err error) models.ParseResult {
	log.WithError(err).Warn("Import failed")
	return models.Failure(id, err)
}

func formatName(d *models.FormatDescriptor) string {
	if d == nil {
		return ""
	}
	return d.Name
}
