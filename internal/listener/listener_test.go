package listener

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"domicilios/internal"
	"domicilios/internal/config"
	"domicilios/internal/pipeline"
)

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Usuario / Solicitante", "Observación"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"7-Ana", "Título: Rayuela | Classificação: N 8P17 | Telefone: 1 | E-mail: a@b.co | Domicílio: Calle 1"}))
	require.NoError(t, f.SaveAs(path))
}

func newTestService(t *testing.T) (*Service, config.Config) {
	t.Helper()
	cfg := config.Config{
		InputDir:          t.TempDir(),
		OutputDir:         t.TempDir(),
		RequestUserColumn: "Usuario / Solicitante",
		RequestNoteColumn: "Observación",
		WatchIntervalSec:  1,
	}
	logger := zaptest.NewLogger(t)
	processor, err := pipeline.NewProcessingService(cfg, internal.DefaultPolicy(), logger)
	require.NoError(t, err)
	return NewService(cfg, processor, logger), cfg
}

func TestRunCycleProcessesPendingOnce(t *testing.T) {
	svc, cfg := newTestService(t)
	writeWorkbook(t, filepath.Join(cfg.InputDir, "SOLICITUDES 1.xlsx"))
	writeWorkbook(t, filepath.Join(cfg.InputDir, "~$SOLICITUDES 1.xlsx"))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "notas.txt"), []byte("x"), 0o644))

	n, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "SOLICITUDES 1_procesado.xlsx"))
	require.NoError(t, err)

	n, err = svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRunCycleReprocessesUpdatedWorkbook(t *testing.T) {
	svc, cfg := newTestService(t)
	input := filepath.Join(cfg.InputDir, "pedidos.xlsx")
	writeWorkbook(t, input)

	n, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(input, later, later))
	n, err = svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRunCycleSkipsBrokenWorkbook(t *testing.T) {
	svc, cfg := newTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "roto.xlsx"), []byte("not a zip"), 0o644))

	n, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRunStopsOnCancel(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.Run(ctx))
}

func TestIsRequestWorkbook(t *testing.T) {
	require.True(t, isRequestWorkbook("SOLICITUDES.XLSX"))
	require.False(t, isRequestWorkbook("SOLICITUDES_procesado.xlsx"))
	require.False(t, isRequestWorkbook("~$SOLICITUDES.xlsx"))
	require.False(t, isRequestWorkbook("notas.txt"))
}

func TestRunCycleDeliverIntoOutputDir(t *testing.T) {
	out := t.TempDir()
	cfg := config.Config{
		InputDir:          t.TempDir(),
		OutputDir:         out,
		DeliveryDir:       out,
		RequestUserColumn: "Usuario / Solicitante",
		RequestNoteColumn: "Observación",
		WatchIntervalSec:  1,
		WatchDeliver:      true,
	}
	logger := zaptest.NewLogger(t)
	processor, err := pipeline.NewProcessingService(cfg, internal.DefaultPolicy(), logger)
	require.NoError(t, err)
	svc := NewService(cfg, processor, logger)
	writeWorkbook(t, filepath.Join(cfg.InputDir, "pedidos.xlsx"))

	n, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	f, err := excelize.OpenFile(filepath.Join(out, "pedidos_procesado.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Solicitudes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
