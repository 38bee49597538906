package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"domicilios/internal"
)

const (
	requestsSheet = "Solicitudes"
	usersSheet    = "Usuarios"

	maxColumnWidth = 255
)

var (
	requestHeaders = []string{"Nombre", "Cedula", "Direccion", "Localidad", "Barrio", "Telefono", "Topografico"}
	userHeaders    = []string{"Nombre", "Cedula", "Direccion", "Telefono", "Topografico"}
)

func ExportRecordsToXLSX(batch internal.BatchResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), requestsSheet); err != nil {
		return err
	}
	requestRows := make([][]string, 0, len(batch.Records))
	for _, rec := range batch.Records {
		requestRows = append(requestRows, []string{
			rec.Name, rec.Identity, rec.Address, rec.Locality, rec.Neighborhood, rec.Phone, rec.Item,
		})
	}
	if err := writeTable(f, requestsSheet, requestHeaders, requestRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(usersSheet); err != nil {
		return err
	}
	userRows := make([][]string, 0, len(batch.Users))
	for _, u := range batch.Users {
		userRows = append(userRows, []string{u.Name, u.Identity, u.Address, u.Phone, u.Classification()})
	}
	if err := writeTable(f, usersSheet, userHeaders, userRows); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
		widths[i] = cellWidth(h)
	}

	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
			if strings.Contains(value, "\n") {
				if err := f.SetCellStyle(sheet, cell, cell, wrapStyle); err != nil {
					return err
				}
			}
			if w := cellWidth(value); w > widths[c] {
				widths[c] = w
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(w + 2)
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// cellWidth is the longest line of a value, in characters.
func cellWidth(value string) int {
	longest := 0
	for _, line := range strings.Split(value, "\n") {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}
	return longest
}
