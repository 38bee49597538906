package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestFetchRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/values/"):
			assert.Contains(t, r.URL.Path, "'Hoja 1'")
			_, _ = w.Write([]byte(`{"range":"'Hoja 1'!A1:C3","values":[["Solicitudes del día"],["NOMBRE DE USUARIO","N° Identificación"],["Ana",7]]}`))
		case strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/sheet-123"):
			_, _ = w.Write([]byte(`{"sheets":[{"properties":{"title":"Hoja 1"}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	conn, err := NewConnectorWithOptions(ctx, "sheet-123",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	rows, err := conn.FetchRows(ctx)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Solicitudes del día"},
		{"NOMBRE DE USUARIO", "N° Identificación"},
		{"Ana", "7"},
	}, rows)
}

func TestQuoteSheetName(t *testing.T) {
	require.Equal(t, "'Hoja 1'", quoteSheetName("Hoja 1"))
	require.Equal(t, "'Don''s'", quoteSheetName("Don's"))
}
