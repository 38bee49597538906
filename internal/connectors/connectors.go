package connectors

import "context"

// RowSource yields the raw cell grid of a label sheet, header rows included.
type RowSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}
