package labels

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"domicilios/internal/config"
	"domicilios/internal/connectors"
	"domicilios/internal/pipeline"
)

var ErrNoTickets = errors.New("no tickets in the selected range")

type Service struct {
	cfg    config.Config
	source connectors.RowSource
	logger *zap.Logger
	now    func() time.Time
}

func NewService(cfg config.Config, source connectors.RowSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, source: source, logger: logger, now: time.Now}
}

type Options struct {
	Range   Range
	Library string
	Banner  string
	Output  string
	Deliver bool
}

type Result struct {
	Output    string
	Delivered string
	Tickets   int
}

func (s *Service) Generate(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Range.Validate(); err != nil {
		return Result{}, err
	}
	log := s.logger.With(zap.Int("first", opts.Range.First), zap.Int("last", opts.Range.Last))

	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch label rows: %w", err)
	}
	log.Debug("label rows fetched", zap.Int("rows", len(rows)))

	library := firstNonEmpty(opts.Library, s.cfg.LabelLibrary)
	tickets, err := BuildTickets(rows, s.cfg.LabelHeaderRow, opts.Range, library)
	if err != nil {
		return Result{}, err
	}
	if len(tickets) == 0 {
		return Result{}, ErrNoTickets
	}

	now, err := s.localNow()
	if err != nil {
		return Result{}, err
	}

	output := opts.Output
	if output == "" {
		output = filepath.Join(s.cfg.OutputDir, FileName(now))
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Result{}, err
	}

	r := Renderer{
		LogoPath: s.cfg.LabelLogoPath,
		Banner:   firstNonEmpty(opts.Banner, s.cfg.LabelBanner),
		DateLine: DateLine(now),
	}
	if err := r.RenderFile(tickets, output); err != nil {
		return Result{}, fmt.Errorf("render %s: %w", output, err)
	}

	res := Result{Output: output, Tickets: len(tickets)}
	if opts.Deliver {
		delivered, err := pipeline.CopyToDir(output, s.cfg.DeliveryDir)
		if err != nil {
			return Result{}, err
		}
		res.Delivered = delivered
	}

	log.Info("labels generated", zap.Int("tickets", len(tickets)), zap.String("output", output))
	return res, nil
}

func (s *Service) localNow() (time.Time, error) {
	now := s.now()
	if s.cfg.LabelTimezone == "" {
		return now, nil
	}
	loc, err := time.LoadLocation(s.cfg.LabelTimezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("LABEL_TIMEZONE: %w", err)
	}
	return now.In(loc), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
