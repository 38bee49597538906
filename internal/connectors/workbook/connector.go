package workbook

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Connector reads a label sheet exported to a local workbook.
type Connector struct {
	path string
}

func NewConnector(path string) *Connector {
	return &Connector{path: path}
}

func (c *Connector) FetchRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", c.path)
	}
	return f.GetRows(sheets[0])
}
