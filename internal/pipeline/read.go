package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"domicilios/internal"
	"domicilios/internal/util"
)

type RequestColumns struct {
	Requester  string
	Annotation string
}

func ReadRequestsXLSX(path string, columns RequestColumns) ([]internal.RawRow, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseRequestsXLSX(blob, columns)
}

func parseRequestsXLSX(content []byte, columns RequestColumns) ([]internal.RawRow, error) {
	rows, err := readFirstSheet(content)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook has no header row")
	}

	header := NewHeaderIndex(rows[0])
	userIdx, ok := header.Lookup(columns.Requester)
	if !ok {
		return nil, fmt.Errorf("missing column %q", columns.Requester)
	}
	noteIdx, ok := header.Lookup(columns.Annotation)
	if !ok {
		return nil, fmt.Errorf("missing column %q", columns.Annotation)
	}

	out := make([]internal.RawRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		out = append(out, internal.RawRow{
			Index:      len(out) + 1,
			SheetRow:   i + 2,
			Requester:  cellAt(row, userIdx),
			Annotation: cellAt(row, noteIdx),
		})
	}
	return out, nil
}

func readFirstSheet(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// HeaderIndex maps normalized header names to column positions.
type HeaderIndex map[string]int

func NewHeaderIndex(headers []string) HeaderIndex {
	idx := HeaderIndex{}
	for i, h := range headers {
		key := util.HeaderKey(h)
		if key == "" {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

func (h HeaderIndex) Lookup(name string) (int, bool) {
	i, ok := h[util.HeaderKey(name)]
	return i, ok
}

// Value returns the trimmed cell under the named column, or "".
func (h HeaderIndex) Value(row []string, name string) string {
	i, ok := h.Lookup(name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cellAt(row, i))
}

func cellAt(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
