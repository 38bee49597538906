package pipeline

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const (
	userColumn = "Usuario / Solicitante"
	noteColumn = "Observación"
)

type note map[string]string

var noteOrder = []string{
	"Acervo:", "Título:", "Classificação:", "Biblioteca de origem:", "Biblioteca de recebimento:",
	"Telefone:", "E-mail:", "Domicílio:", "Data de solicitação:",
}

// annotation renders the prefixed segments the catalogue writes into the
// request note, in catalogue order.
func annotation(n note) string {
	parts := make([]string, 0, len(n))
	for _, prefix := range noteOrder {
		if v, ok := n[prefix]; ok {
			parts = append(parts, prefix+" "+v)
		}
	}
	return strings.Join(parts, " | ")
}

func fullNote() note {
	return note{
		"Acervo:":               "Libros",
		"Título:":               "Cien años de soledad",
		"Classificação:":        "863 G71c",
		"Biblioteca de origem:": "Virgilio Barco",
		"Telefone:":             "3001234567",
		"E-mail:":               "ana@example.com",
		"Domicílio:":            "Cra 1 # 2-3",
		"Data de solicitação:":  "2026-10-19",
	}
}

func (n note) without(prefixes ...string) note {
	out := note{}
	for k, v := range n {
		out[k] = v
	}
	for _, p := range prefixes {
		delete(out, p)
	}
	return out
}

func (n note) with(prefix, value string) note {
	out := n.without()
	out[prefix] = value
	return out
}

func writeRequestsXLSX(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	all := append([][]string{{"Fecha", userColumn, noteColumn}}, rows...)
	for r, row := range all {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}
