package importer

import (
	"path/filepath"

	"fjacquet/statement-import/internal/cardfilter"
	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/dateutils"
	"fjacquet/statement-import/internal/dedup"
	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/headerresolver"
	"fjacquet/statement-import/internal/installment"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/tabular"
	"fjacquet/statement-import/internal/textutils"
	"fjacquet/statement-import/internal/typeclassifier"
)

// skipReason classifies a row that produced no record.
type skipReason int

const (
	accepted skipReason = iota
	skipInvalid
	skipCard
	skipDuplicate
	skipMonthDate
)

func (r skipReason) String() string {
	switch r {
	case skipInvalid:
		return "invalid"
	case skipCard:
		return "card_filtered"
	case skipDuplicate:
		return "duplicate"
	case skipMonthDate:
		return "month_only_date"
	default:
		return "accepted"
	}
}

// extractor turns rows into records for one Import call. Its detector is shared by all
// sheets so duplicates are caught across sheets too.
type extractor struct {
	desc     *models.FormatDescriptor
	cards    cardfilter.Policy
	detector *dedup.Detector
	kind     tabular.Kind
	xls      bool
	fileName string
	maxDesc  int
	logger   logging.Logger
}

func newExtractor(p *Pipeline, req Request, kind tabular.Kind, detector *dedup.Detector, logger logging.Logger) *extractor {
	var cards cardfilter.Policy
	if req.Cards != nil {
		cards = *req.Cards
	}
	return &extractor{
		desc:     req.Format,
		cards:    cards,
		detector: detector,
		kind:     kind,
		xls:      fileutils.Extension(req.FileName) == "xls",
		fileName: filepath.Base(req.FileName),
		maxDesc:  p.cfg.DescriptionLength,
		logger:   logger,
	}
}

// extract processes the data rows of one sheet and returns how many were accepted.
func (e *extractor) extract(sheet tabular.Sheet, res *headerresolver.Resolution, result *models.ParseResult) int {
	rows := sheet.Rows[res.HeaderRow+1:]
	if e.kind == tabular.KindDelimited {
		kept := tabular.DropIrregular(rows, len(sheet.Rows[res.HeaderRow]))
		result.Skipped.Invalid += len(rows) - len(kept)
		rows = kept
	}

	sheetName := ""
	if e.kind == tabular.KindSpreadsheet {
		sheetName = sheet.Name
	}

	count, monthDates := 0, 0
	for i, row := range rows {
		tx, reason := e.processRow(row, res, sheetName)
		switch reason {
		case accepted:
			result.Data = append(result.Data, tx)
			count++
			continue
		case skipInvalid:
			result.Skipped.Invalid++
		case skipMonthDate:
			result.Skipped.Invalid++
			monthDates++
		case skipCard:
			result.Skipped.CardFiltered++
		case skipDuplicate:
			result.Skipped.Duplicates++
		}
		e.logger.Debug("Row skipped",
			logging.F(logging.FieldSheet, sheet.Name),
			logging.F(logging.FieldRow, i+1),
			logging.F(logging.FieldReason, reason.String()))
	}
	if monthDates > 0 {
		e.logger.Warn("Date cells decoded without a day; use xlsx or a text date format",
			logging.F(logging.FieldSheet, sheet.Name),
			logging.F(logging.FieldCount, monthDates))
	}
	return count
}

func (e *extractor) processRow(row tabular.Row, res *headerresolver.Resolution, sheetName string) (models.Transaction, skipReason) {
	cell := func(f models.Field) tabular.Cell {
		i, ok := res.Index(f)
		if !ok {
			return nil
		}
		return row.At(i)
	}
	text := func(f models.Field) string {
		return tabular.CellString(cell(f))
	}

	if tabular.IsBlankRow(row) {
		return models.Transaction{}, skipInvalid
	}

	card := text(models.FieldCardNumber)
	if res.Has(models.FieldCardNumber) && !e.cards.Admit(card) {
		return models.Transaction{}, skipCard
	}

	raw := currencyutils.NormalizeAmount(cell(models.FieldAmount), e.desc)
	if raw.IsZero() {
		return models.Transaction{}, skipInvalid
	}
	typ, amount := typeclassifier.Classify(raw, text(models.FieldType), e.desc)

	if e.xls && tabular.IsXLSMonthRender(cell(models.FieldDate)) {
		return models.Transaction{}, skipMonthDate
	}
	date := dateutils.NormalizeCell(cell(models.FieldDate), e.desc)
	if date == "" {
		return models.Transaction{}, skipInvalid
	}

	description := textutils.CleanDescription(text(models.FieldDescription), e.maxDesc)
	if description == "" {
		return models.Transaction{}, skipInvalid
	}

	details := textutils.CleanDescription(text(models.FieldDetails), 0)
	chargeDate := dateutils.NormalizeCell(cell(models.FieldChargeDate), e.desc)
	inst := installment.Detect(installment.Input{
		Description:     description,
		Details:         details,
		PerRowAmount:    amount,
		TotalAmount:     cell(models.FieldTotalAmount),
		Number:          cell(models.FieldInstallmentNumber),
		Count:           cell(models.FieldTotalInstallments),
		TransactionDate: date,
		ChargeDate:      chargeDate,
		OriginalDate:    dateutils.NormalizeCell(cell(models.FieldOriginalTransactionDate), e.desc),
	}, e.desc)

	recordDate := date
	if inst != nil && inst.InstallmentDate != "" {
		recordDate = inst.InstallmentDate
	}

	code := text(models.FieldTransactionCode)
	if code == "" {
		code = textutils.ExtractReference(details)
	}

	tx, err := models.NewTransactionBuilder().
		WithDate(recordDate).
		WithAmount(amount).
		AsType(typ).
		WithDescription(description).
		WithCategory(text(models.FieldCategory)).
		WithCardNumber(card).
		WithTransactionCode(code).
		WithBusiness(text(models.FieldBusinessCategory), text(models.FieldBusinessIdentifier)).
		WithInstallment(inst).
		WithNotes(installment.Notes(e.fileName, sheetName, inst)).
		WithSheet(sheetName).
		Build()
	if err != nil {
		e.logger.WithError(err).Debug("Row rejected by builder")
		return models.Transaction{}, skipInvalid
	}

	if !e.detector.Admit(&tx) {
		return models.Transaction{}, skipDuplicate
	}
	return tx, accepted
}
