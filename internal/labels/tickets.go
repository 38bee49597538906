package labels

import (
	"fmt"
	"strings"

	"domicilios/internal"
	"domicilios/internal/pipeline"
)

const MaxMaterials = 9

const (
	colName         = "NOMBRE DE USUARIO"
	colIdentity     = "N° Identificación"
	colAddress      = "DIRECCIÓN"
	colLocality     = "LOCALIDAD"
	colNeighborhood = "BARRIO"
	colPhone        = "N° Telefono"
	colLibrary      = "BIBLIOTECA"
	colMaterialFmt  = "MATERIAL %d"

	materialSeparator = " - "
)

// Range selects label rows by sheet line number, both ends inclusive.
type Range struct {
	First int
	Last  int
}

func (r Range) Validate() error {
	if r.First < 1 {
		return fmt.Errorf("first row must be >= 1, got %d", r.First)
	}
	if r.Last < r.First {
		return fmt.Errorf("last row %d is before first row %d", r.Last, r.First)
	}
	return nil
}

// BuildTickets maps the selected sheet rows to tickets. Rows at or above the
// header row and fully blank rows are ignored.
func BuildTickets(rows [][]string, headerRow int, sel Range, defaultLibrary string) ([]internal.Ticket, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if headerRow < 1 || headerRow > len(rows) {
		return nil, fmt.Errorf("header row %d not found (sheet has %d rows)", headerRow, len(rows))
	}
	header := pipeline.NewHeaderIndex(rows[headerRow-1])
	if _, ok := header.Lookup(colName); !ok {
		return nil, fmt.Errorf("missing column %q in header row %d", colName, headerRow)
	}

	first := max(sel.First, headerRow+1)
	last := min(sel.Last, len(rows))

	out := []internal.Ticket{}
	for line := first; line <= last; line++ {
		row := rows[line-1]
		if isBlank(row) {
			continue
		}
		materials := cleanMaterials(header, row)
		library := header.Value(row, colLibrary)
		if library == "" {
			library = defaultLibrary
		}
		out = append(out, internal.Ticket{
			Name:         header.Value(row, colName),
			Identity:     header.Value(row, colIdentity),
			Address:      header.Value(row, colAddress),
			Locality:     header.Value(row, colLocality),
			Neighborhood: header.Value(row, colNeighborhood),
			Phone:        header.Value(row, colPhone),
			Library:      library,
			Materials:    materials,
			Count:        len(materials),
		})
	}
	return out, nil
}

func cleanMaterials(header pipeline.HeaderIndex, row []string) []string {
	out := make([]string, 0, MaxMaterials)
	for n := 1; n <= MaxMaterials; n++ {
		raw := header.Value(row, fmt.Sprintf(colMaterialFmt, n))
		if raw == "" {
			continue
		}
		title := pipeline.CleanMaterial(raw, true)
		if title == "" {
			// only a call number was written; show it rather than nothing
			title = pipeline.TruncateTitle(raw)
		}
		out = append(out, title)
	}
	return out
}

// FormatMaterials joins titles two per line.
func FormatMaterials(titles []string) string {
	var b strings.Builder
	for i, t := range titles {
		if i > 0 {
			if i%2 == 0 {
				b.WriteString("\n")
			} else {
				b.WriteString(materialSeparator)
			}
		}
		b.WriteString(t)
	}
	return b.String()
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
