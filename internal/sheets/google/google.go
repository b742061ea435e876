// Package google mirrors the transaction ledger into a Google Sheets
// spreadsheet using service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"carteira/internal/core"
	ports "carteira/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ ports.TransactionMirror = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "Transações") and one of
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS for auth.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transações"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// MirrorTransactions clears the sheet and rewrites it from the snapshot.
// Row layout: date, type, description, category, amount (base currency).
func (c *Client) MirrorTransactions(ctx context.Context, transactions []core.Transaction) error {
	clearRange := c.sheetName + "!A2:E"
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet range %s: %w", clearRange, err)
	}

	header := [][]interface{}{{"Data", "Tipo", "Descrição", "Categoria", "Valor (BRL)"}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.sheetName+"!A1:E1",
		&gsheet.ValueRange{Values: header}).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write sheet header: %w", err)
	}

	if len(transactions) == 0 {
		slog.InfoContext(ctx, "Mirrored empty transaction list", "sheet", c.sheetName)
		return nil
	}

	rows := make([][]interface{}, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []interface{}{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Description,
			t.Category,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
		})
	}

	writeRange := fmt.Sprintf("%s!A2:E%d", c.sheetName, len(rows)+1)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange,
		&gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write sheet rows: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transactions to Google Sheets",
		"sheet", c.sheetName,
		"rows", len(rows))
	return nil
}
