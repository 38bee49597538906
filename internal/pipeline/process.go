package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"domicilios/internal"
	"domicilios/internal/config"
	"domicilios/internal/storage"
)

// Processor runs extraction, validation, identity parsing and aggregation over
// rows in order. It performs no I/O.
type Processor struct {
	extractor *Extractor
	validator *Validator
}

func NewProcessor(policy internal.Policy) (*Processor, error) {
	extractor, err := NewExtractor(policy)
	if err != nil {
		return nil, err
	}
	validator, err := NewValidator(policy)
	if err != nil {
		return nil, err
	}
	return &Processor{extractor: extractor, validator: validator}, nil
}

func (p *Processor) ProcessRow(row internal.RawRow) internal.RowOutcome {
	fields := p.extractor.Extract(row.Annotation)

	address, rejection := p.validator.Validate(fields)
	if rejection != nil {
		return internal.RowOutcome{Row: row, Rejection: rejection}
	}

	identity, err := ParseIdentity(row.Requester)
	if err != nil {
		return internal.RowOutcome{Row: row, Rejection: &internal.Rejection{
			Code:    internal.ReasonInvalidIdentityFormat,
			Message: "Formato de usuario inválido",
		}}
	}

	rec := internal.LoanRequestRecord{
		Row:         row.Index,
		Name:        identity.Name,
		Identity:    identity.ID,
		Address:     address,
		Phone:       fields.Value(internal.FieldPhone),
		Email:       fields.Value(internal.FieldEmail),
		RequestDate: fields.Value(internal.FieldRequestDate),
		Item:        fields.Value(internal.FieldClassification) + "  " + fields.Value(internal.FieldTitle),
	}
	return internal.RowOutcome{Row: row, Record: &rec}
}

// ProcessRows folds every row into one BatchResult. Rejected rows become
// omissions; none of them stops the batch.
func (p *Processor) ProcessRows(rows []internal.RawRow) (internal.BatchResult, []internal.RowOutcome) {
	agg := NewAggregator()
	outcomes := make([]internal.RowOutcome, 0, len(rows))
	result := internal.BatchResult{Records: []internal.LoanRequestRecord{}, Omissions: []internal.Omission{}}

	for _, row := range rows {
		outcome := p.ProcessRow(row)
		outcomes = append(outcomes, outcome)
		if !outcome.Accepted() {
			result.Omissions = append(result.Omissions, internal.Omission{
				Row:       row.Index,
				SheetRow:  row.SheetRow,
				Requester: row.Requester,
				Reason:    outcome.Rejection.Code,
				Missing:   outcome.Rejection.Missing,
				Message:   outcome.Rejection.Message,
			})
			continue
		}
		result.Records = append(result.Records, *outcome.Record)
		agg.Add(*outcome.Record)
	}

	result.Users = agg.Users()
	return result, outcomes
}

type ProcessingService struct {
	cfg       config.Config
	processor *Processor
	logger    *zap.Logger
}

func NewProcessingService(cfg config.Config, policy internal.Policy, logger *zap.Logger) (*ProcessingService, error) {
	processor, err := NewProcessor(policy)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessingService{cfg: cfg, processor: processor, logger: logger}, nil
}

type FileOptions struct {
	OutputPath string
	SQLitePath string
	Deliver    bool
}

type FileResult struct {
	RunID     string
	Output    string
	Delivered string
	Batch     internal.BatchResult
}

func (s *ProcessingService) ProcessFile(inputPath string, opts FileOptions) (FileResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID), zap.String("input", inputPath))
	log.Info("processing request workbook")

	rows, err := ReadRequestsXLSX(inputPath, RequestColumns{
		Requester:  s.cfg.RequestUserColumn,
		Annotation: s.cfg.RequestNoteColumn,
	})
	if err != nil {
		return FileResult{}, fmt.Errorf("read %s: %w", inputPath, err)
	}
	log.Debug("rows read", zap.Int("rows", len(rows)))

	batch, outcomes := s.processor.ProcessRows(rows)
	for _, o := range outcomes {
		if !o.Accepted() {
			log.Warn("row omitted",
				zap.Int("row", o.Row.Index),
				zap.Int("sheet_row", o.Row.SheetRow),
				zap.String("requester", o.Row.Requester),
				zap.String("reason", string(o.Rejection.Code)),
				zap.String("detail", o.Rejection.Message),
			)
			continue
		}
		log.Debug("row accepted", zap.Int("row", o.Row.Index), zap.String("identity", o.Record.Identity))
	}

	output := opts.OutputPath
	if strings.TrimSpace(output) == "" {
		output = filepath.Join(s.cfg.OutputDir, ProcessedFileName(inputPath))
	}
	if err := ExportRecordsToXLSX(batch, output); err != nil {
		return FileResult{}, fmt.Errorf("export %s: %w", output, err)
	}

	if opts.SQLitePath != "" {
		if err := exportSQLite(opts.SQLitePath, batch); err != nil {
			return FileResult{}, fmt.Errorf("sqlite export %s: %w", opts.SQLitePath, err)
		}
	}

	res := FileResult{RunID: runID, Output: output, Batch: batch}
	if opts.Deliver {
		delivered, err := CopyToDir(output, s.cfg.DeliveryDir)
		if err != nil {
			return FileResult{}, err
		}
		res.Delivered = delivered
	}

	log.Info("request workbook processed",
		zap.Int("accepted", len(batch.Records)),
		zap.Int("users", len(batch.Users)),
		zap.Int("omitted", len(batch.Omissions)),
		zap.String("output", output),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

func exportSQLite(path string, batch internal.BatchResult) (err error) {
	db, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, db.Close()) }()
	return db.ReplaceOutput(batch)
}

// ProcessedFileName maps "SOLICITUDES 17 DE JUNIO.xlsx" to
// "SOLICITUDES 17 DE JUNIO_procesado.xlsx".
func ProcessedFileName(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, ".xlsx") {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "_procesado.xlsx"
}
