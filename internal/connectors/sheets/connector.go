package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"domicilios/internal/config"
)

// Connector reads the first worksheet of one Google Sheet.
type Connector struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewConnector authenticates with the service-account file named by
// GOOGLE_CREDENTIALS_FILE, or with Application Default Credentials when it
// is unset.
func NewConnector(ctx context.Context, cfg config.Config, spreadsheetID string) (*Connector, error) {
	if err := cfg.Require("LABEL_SHEET_ID", spreadsheetID); err != nil {
		return nil, err
	}

	ts, err := tokenSource(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		return nil, err
	}
	client := &http.Client{
		Timeout: time.Duration(cfg.SheetsTimeoutMs) * time.Millisecond,
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   newRetryTransport(http.DefaultTransport, NewRateLimiter(cfg.SheetsRateLimitRPS)),
		},
	}
	return NewConnectorWithOptions(ctx, spreadsheetID, option.WithHTTPClient(client))
}

func NewConnectorWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Connector, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Connector{service: svc, spreadsheetID: spreadsheetID}, nil
}

func tokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	if strings.TrimSpace(credentialsFile) == "" {
		return google.DefaultTokenSource(ctx, sheets.SpreadsheetsReadonlyScope)
	}
	blob, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, blob, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	return creds.TokenSource, nil
}

func (c *Connector) FetchRows(ctx context.Context) ([][]string, error) {
	meta, err := c.service.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", c.spreadsheetID, err)
	}
	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return nil, errors.New("spreadsheet has no worksheets")
	}

	title := meta.Sheets[0].Properties.Title
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheetName(title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", title, err)
	}
	return toRows(resp.Values), nil
}

func toRows(values [][]interface{}) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			if v == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, fmt.Sprint(v))
		}
		out = append(out, cells)
	}
	return out
}

func quoteSheetName(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
