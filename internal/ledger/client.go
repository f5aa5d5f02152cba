package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// ErrRejected is the single, deliberately generic authentication
// failure: unknown key, key bound to someone else, or a lost
// activation race all look the same to the caller so ledger state is
// not leaked.
var ErrRejected = errors.New("authentication rejected")

// BindingMode selects which ledger column a caller identity is
// compared against and written into on first activation.
type BindingMode string

const (
	// BindAPIKey binds a license key to the caller's API key.
	BindAPIKey BindingMode = "api_key"
	// BindIP is the legacy layout that bound keys to a caller IP.
	BindIP BindingMode = "ip"
)

func (m BindingMode) column() string {
	if m == BindIP {
		return "ip_address"
	}
	return "api_key"
}

const (
	keyColumn       = "licensekey"
	usedColumn      = "used"
	timestampColumn = "last_access"

	usedNo  = "no"
	usedYes = "used"
)

// kst is the zone the ledger's advisory timestamps are written in.
var kst = time.FixedZone("KST", 9*60*60)

// Client enforces one-time activation over a ledger Store.
//
// A license key lives in exactly one row. Its lifecycle: issued with
// used=no and an empty binding column; the first successful
// activation flips used and records the caller identity in one
// conditional write; from then on only the advisory last_access cell
// ever changes. Re-authentication with the bound identity is an
// idempotent no-op, any other identity is rejected.
type Client struct {
	store Store
	mode  BindingMode
	now   func() time.Time
}

func NewClient(store Store, mode BindingMode) *Client {
	if mode == "" {
		mode = BindAPIKey
	}
	return &Client{store: store, mode: mode, now: time.Now}
}

// Authenticate runs the activation state machine for licenseKey with
// the caller identity (API key or IP depending on the binding mode).
// Every authenticated outcome refreshes last_access best-effort; a
// failed refresh never downgrades the result.
func (c *Client) Authenticate(ctx context.Context, licenseKey, identity string) error {
	licenseKey = strings.TrimSpace(licenseKey)
	identity = strings.TrimSpace(identity)
	if licenseKey == "" || identity == "" {
		return ErrRejected
	}

	header, rows, err := c.store.Rows(ctx)
	if err != nil {
		if errors.Is(err, ErrSchema) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	cols, err := resolveColumns(header, c.mode)
	if err != nil {
		return err
	}

	for i, row := range rows {
		if strings.TrimSpace(cell(row, cols.key)) != licenseKey {
			continue
		}

		// Header occupies sheet row 1, data starts at row 2.
		sheetRow := i + 2
		bound := strings.TrimSpace(cell(row, cols.identity))
		used := strings.ToLower(strings.TrimSpace(cell(row, cols.used)))

		if bound == identity {
			c.refreshTimestamp(ctx, sheetRow, cols)
			return nil
		}

		if used == usedNo {
			if err := c.store.CompareAndSwap(ctx, sheetRow, cols.used+1, cell(row, cols.used), usedYes); err != nil {
				if errors.Is(err, ErrConflict) {
					// Someone else won the first activation.
					return ErrRejected
				}
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			if err := c.store.Update(ctx, sheetRow, cols.identity+1, identity); err != nil {
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			c.refreshTimestamp(ctx, sheetRow, cols)
			return nil
		}

		return ErrRejected
	}

	return ErrRejected
}

func (c *Client) refreshTimestamp(ctx context.Context, sheetRow int, cols columns) {
	if cols.timestamp < 0 {
		return
	}
	now := c.now().In(kst).Format("2006-01-02 15:04:05")
	if err := c.store.Update(ctx, sheetRow, cols.timestamp+1, now); err != nil {
		log.Printf("ledger: last_access refresh failed for row %d: %v", sheetRow, err)
	}
}

type columns struct {
	key       int
	used      int
	identity  int
	timestamp int
}

func resolveColumns(header []string, mode BindingMode) (columns, error) {
	cols := columns{key: -1, used: -1, identity: -1, timestamp: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case keyColumn:
			cols.key = i
		case usedColumn:
			cols.used = i
		case mode.column():
			cols.identity = i
		case timestampColumn:
			cols.timestamp = i
		}
	}
	if cols.key < 0 || cols.used < 0 || cols.identity < 0 {
		return cols, fmt.Errorf("%w: header %v lacks %s/%s/%s", ErrSchema, header, keyColumn, usedColumn, mode.column())
	}
	return cols, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
