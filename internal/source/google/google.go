// Package google seeds the ledger from a Google Sheets range read with a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"vibe/internal/core"
	"vibe/internal/ingest"
	"vibe/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config holds the spreadsheet coordinates and credentials.
type Config struct {
	SpreadsheetID string
	// Range in A1 notation, first row is the header (e.g. "Expenses!A1:D").
	Range string
	// One of the two credential forms must be set.
	CredentialsFile string
	CredentialsJSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

var _ source.LedgerSource = (*Client)(nil)

// New creates a read-only Sheets client from service account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(cfg.Range) == "" {
		return nil, errors.New("missing sheet range")
	}

	credentialsJSON := []byte(cfg.CredentialsJSON)
	if len(credentialsJSON) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, errors.New("missing service account credentials")
		}
		var err error
		credentialsJSON, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.Range,
	}, nil
}

// Fetch reads the configured range and cleans it like any other ledger
// file. The first row of the range is treated as the header.
func (c *Client) Fetch(ctx context.Context) (core.Ledger, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", c.readRange, err)
	}

	table, err := tableFromValues(resp.Values)
	if err != nil {
		return nil, err
	}
	return ingest.Clean(table)
}

// tableFromValues converts the API's cell grid into an ingest table.
func tableFromValues(values [][]any) (*ingest.Table, error) {
	if len(values) == 0 {
		return nil, errors.New("sheet range is empty")
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = fmt.Sprint(cell)
	}

	t := &ingest.Table{Columns: header}
	for _, row := range values[1:] {
		cells := make([]string, len(header))
		for i := range header {
			if i < len(row) {
				cells[i] = fmt.Sprint(row[i])
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}
