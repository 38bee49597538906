package listener

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"domicilios/internal/config"
	"domicilios/internal/pipeline"
)

// Service polls InputDir and processes every request workbook whose
// processed output is missing or older than the workbook itself.
type Service struct {
	cfg       config.Config
	processor *pipeline.ProcessingService
	logger    *zap.Logger
}

func NewService(cfg config.Config, processor *pipeline.ProcessingService, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, processor: processor, logger: logger}
}

func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.WatchIntervalSec) * time.Second
	s.logger.Info("watching for request workbooks", zap.String("dir", s.cfg.InputDir), zap.Duration("interval", interval))
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			s.logger.Error("watch cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle processes pending workbooks once and returns how many succeeded.
// A failing workbook is logged and retried on the next cycle.
func (s *Service) RunCycle(ctx context.Context) (int, error) {
	pending, err := s.pending()
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, path := range pending {
		if err := ctx.Err(); err != nil {
			return processed, nil
		}
		res, err := s.processor.ProcessFile(path, pipeline.FileOptions{
			SQLitePath: s.cfg.WatchSQLitePath,
			Deliver:    s.cfg.WatchDeliver,
		})
		if err != nil {
			s.logger.Error("workbook failed", zap.String("input", path), zap.Error(err))
			continue
		}
		processed++
		s.logger.Info("workbook processed",
			zap.String("input", path),
			zap.String("output", res.Output),
			zap.Int("omitted", len(res.Batch.Omissions)),
		)
	}
	if len(pending) > 0 {
		s.logger.Debug("watch cycle done", zap.Int("pending", len(pending)), zap.Int("processed", processed))
	}
	return processed, nil
}

func (s *Service) pending() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.InputDir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isRequestWorkbook(name) {
			continue
		}
		input := filepath.Join(s.cfg.InputDir, name)
		inInfo, err := e.Info()
		if err != nil {
			return nil, err
		}
		outInfo, err := os.Stat(filepath.Join(s.cfg.OutputDir, pipeline.ProcessedFileName(name)))
		if err == nil && !outInfo.ModTime().Before(inInfo.ModTime()) {
			continue
		}
		out = append(out, input)
	}
	sort.Strings(out)
	return out, nil
}

func isRequestWorkbook(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "~$") || strings.HasPrefix(lower, ".") {
		return false
	}
	return strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, "_procesado.xlsx")
}
