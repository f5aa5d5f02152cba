package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"registry-backend/internal/model"
	"registry-backend/internal/normalize"
)

// ErrUnavailable reports that the underlying dataset could not be
// queried. It is surfaced to the caller as-is, never retried here.
var ErrUnavailable = errors.New("registry storage unavailable")

// RegionPrefixLen is the number of runes of a region name compared
// against the head of a normalized address.
const RegionPrefixLen = 4

// Store runs coarse region/address/name filters over the two registry
// datasets. Read-only; dataset refresh is an external job.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Query returns both datasets filtered by the same region/address
// predicate. Regions are OR-combined 4-rune prefixes, an empty region
// set matches everything; address and name terms are folded substring
// filters, empty terms match everything. nameSub is a coarse
// pre-filter only - callers that need looser-than-substring name
// semantics must pass it empty and filter through the matcher.
// Ordering is fixed (license number) so identical queries return
// identical row order.
func (s *Store) Query(ctx context.Context, regions []string, addrSub, nameSub string) ([]model.ActiveRecord, []model.ClosedRecord, error) {
	var active []model.ActiveRecord
	if err := s.filtered(ctx, regions, addrSub, nameSub).Order("LCNS_NO").Find(&active).Error; err != nil {
		return nil, nil, fmt.Errorf("%w: active dataset: %v", ErrUnavailable, err)
	}

	var closed []model.ClosedRecord
	if err := s.filtered(ctx, regions, addrSub, nameSub).Order("LCNS_NO").Find(&closed).Error; err != nil {
		return nil, nil, fmt.Errorf("%w: closed dataset: %v", ErrUnavailable, err)
	}

	return active, closed, nil
}

func (s *Store) filtered(ctx context.Context, regions []string, addrSub, nameSub string) *gorm.DB {
	tx := s.db.WithContext(ctx)

	if len(regions) > 0 {
		region := s.db.Session(&gorm.Session{NewDB: true}).
			Where("_ADDR_LOWER LIKE ?", normalize.Prefix(regions[0], RegionPrefixLen)+"%")
		for _, r := range regions[1:] {
			prefix := normalize.Prefix(r, RegionPrefixLen)
			region = region.Or("_ADDR_LOWER LIKE ?", prefix+"%")
		}
		tx = tx.Where(region)
	}

	if folded := normalize.Fold(addrSub); folded != "" {
		tx = tx.Where("_ADDR_LOWER LIKE ?", "%"+folded+"%")
	}

	if folded := normalize.Fold(nameSub); folded != "" {
		tx = tx.Where("_BSSH_NORM LIKE ?", "%"+folded+"%")
	}

	return tx
}
