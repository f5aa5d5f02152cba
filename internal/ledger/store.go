package ledger

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrUnavailable reports that the ledger backend could not be
	// reached. Surfaced to the caller, never retried here.
	ErrUnavailable = errors.New("ledger unavailable")
	// ErrSchema reports a malformed or missing header row.
	ErrSchema = errors.New("ledger schema error")
	// ErrConflict reports a failed compare-and-swap: the cell no
	// longer held the expected value.
	ErrConflict = errors.New("ledger cell changed concurrently")
)

// Store is the ledger backend: a small shared table, one row per
// issued license key, addressed by 1-based row and column numbers
// (row 1 is the header). Implementations must make CompareAndSwap as
// atomic as their backend allows; see SheetStore for the documented
// residual window of the Sheets API.
type Store interface {
	// Rows returns the header row and all data rows, in sheet order.
	Rows(ctx context.Context) (header []string, rows [][]string, err error)
	// Update writes a single cell unconditionally.
	Update(ctx context.Context, row, col int, value string) error
	// CompareAndSwap writes a cell only if it currently holds old,
	// returning ErrConflict otherwise.
	CompareAndSwap(ctx context.Context, row, col int, old, value string) error
}

// MemStore is an in-memory Store with a truly atomic CompareAndSwap,
// used in tests and when the ledger is disabled in config.
type MemStore struct {
	mu     sync.Mutex
	header []string
	rows   [][]string
}

func NewMemStore(header []string, rows [][]string) *MemStore {
	return &MemStore{header: header, rows: rows}
}

func (m *MemStore) Rows(ctx context.Context) ([]string, [][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	header := append([]string(nil), m.header...)
	rows := make([][]string, len(m.rows))
	for i, r := range m.rows {
		rows[i] = append([]string(nil), r...)
	}
	return header, rows, nil
}

func (m *MemStore) cell(row, col int) (*string, error) {
	i := row - 2 // data rows start at sheet row 2
	if i < 0 || i >= len(m.rows) {
		return nil, ErrUnavailable
	}
	for len(m.rows[i]) < col {
		m.rows[i] = append(m.rows[i], "")
	}
	return &m.rows[i][col-1], nil
}

func (m *MemStore) Update(ctx context.Context, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.cell(row, col)
	if err != nil {
		return err
	}
	*c = value
	return nil
}

func (m *MemStore) CompareAndSwap(ctx context.Context, row, col int, old, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.cell(row, col)
	if err != nil {
		return err
	}
	if *c != old {
		return ErrConflict
	}
	*c = value
	return nil
}
