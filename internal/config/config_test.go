package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INPUT_DIR", "/srv/solicitudes")
	t.Setenv("LABEL_HEADER_ROW", "3")
	t.Setenv("WATCH_DELIVER", "yes")
	t.Setenv("SHEETS_RATE_LIMIT_RPS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/srv/solicitudes", cfg.InputDir)
	require.Equal(t, 3, cfg.LabelHeaderRow)
	require.True(t, cfg.WatchDeliver)
	require.Equal(t, 1, cfg.SheetsRateLimitRPS)
	require.Equal(t, "Usuario / Solicitante", cfg.RequestUserColumn)
	require.Equal(t, "America/Bogota", cfg.LabelTimezone)
}

func TestLoadRejectsBadHeaderRow(t *testing.T) {
	t.Setenv("LABEL_HEADER_ROW", "0")
	_, err := Load()
	require.ErrorContains(t, err, "LABEL_HEADER_ROW")
}

func TestResolveInput(t *testing.T) {
	cfg := Config{InputDir: filepath.Join("srv", "in")}
	require.Equal(t, filepath.Join("srv", "in", "pedidos.xlsx"), cfg.ResolveInput("pedidos.xlsx"))
	require.Equal(t, "/tmp/pedidos.xlsx", cfg.ResolveInput("/tmp/pedidos.xlsx"))
}

func TestRequire(t *testing.T) {
	require.NoError(t, Config{}.Require("LABEL_SHEET_ID", "abc"))
	require.ErrorContains(t, Config{}.Require("LABEL_SHEET_ID", "  "), "LABEL_SHEET_ID")
}
