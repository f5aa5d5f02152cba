package ledger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetStore backs the ledger with a Google Sheet, one license key
// per row under a header row.
//
// The Sheets API has no conditional write, so CompareAndSwap is
// emulated: under a process-local mutex the cell is re-read and only
// written if it still holds the expected value. This removes the
// read-modify-write race between sessions of one process; two
// processes writing the same cell can still race, last writer wins.
// That residual window is accepted for this low-concurrency ledger.
type SheetStore struct {
	mu            sync.Mutex
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetStore(ctx context.Context, credentialPath, spreadsheetID, sheetName string) (*SheetStore, error) {
	b, err := os.ReadFile(credentialPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, err
	}

	return &SheetStore{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (s *SheetStore) Rows(ctx context.Context) ([]string, [][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName).
		Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("%w: empty sheet", ErrSchema)
	}

	header := toStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, toStrings(raw))
	}
	return header, rows, nil
}

func (s *SheetStore) Update(ctx context.Context, row, col int, value string) error {
	cell := fmt.Sprintf("%s!%s%d", s.sheetName, columnName(col), row)
	_, err := s.service.Spreadsheets.Values.Update(
		s.spreadsheetID,
		cell,
		&sheets.ValueRange{Values: [][]interface{}{{value}}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrUnavailable, cell, err)
	}
	return nil
}

func (s *SheetStore) CompareAndSwap(ctx context.Context, row, col int, old, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell := fmt.Sprintf("%s!%s%d", s.sheetName, columnName(col), row)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, cell).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrUnavailable, cell, err)
	}

	current := ""
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		current = fmt.Sprint(resp.Values[0][0])
	}
	if current != old {
		return ErrConflict
	}

	return s.Update(ctx, row, col, value)
}

func toStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}

// columnName converts a 1-based column number to A1 notation.
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
