package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"domicilios/internal"
)

func TestPrintOmissions(t *testing.T) {
	var buf bytes.Buffer
	printOmissions(&buf, []internal.Omission{
		{Row: 4, Requester: "Ana Ruiz", Message: "Formato de usuario inválido"},
	})
	require.Equal(t, "Filas omitidas (1):\nFila 4: Usuario=Ana Ruiz -> Formato de usuario inválido\n", buf.String())

	buf.Reset()
	printOmissions(&buf, nil)
	require.Empty(t, buf.String())
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(-1))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(-1))

	_, err = newLogger("chatty", false)
	require.Error(t, err)
}

func TestRequestsProcessCommand(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	t.Setenv("INPUT_DIR", in)
	t.Setenv("OUTPUT_DIR", out)
	t.Setenv("LOG_LEVEL", "error")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Usuario / Solicitante", "Observación"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"007-Ana", "Título: Rayuela | Classificação: N 8P17 | Telefone: 1 | E-mail: a@b.co | Domicílio: Calle 1"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Luis", "Título: X | Classificação: C | Telefone: 2 | E-mail: l@b.co | Domicílio: Calle 2"}))
	require.NoError(t, f.SaveAs(filepath.Join(in, "pedidos.xlsx")))
	require.NoError(t, f.Close())

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"requests:process", "pedidos.xlsx"})
	require.NoError(t, rootCmd.Execute())

	want := "Filas omitidas (1):\n" +
		"Fila 2: Usuario=Luis -> Formato de usuario inválido\n" +
		"run done rows=1 users=1 omitted=1 output=" + filepath.Join(out, "pedidos_procesado.xlsx") + "\n"
	require.Equal(t, want, stdout.String())
}
