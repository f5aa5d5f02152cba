package session

import (
	"context"
	"errors"
	"time"

	"registry-backend/internal/ledger"
	"registry-backend/internal/match"
	"registry-backend/internal/model"
	"registry-backend/internal/normalize"
	"registry-backend/internal/store"
)

var (
	// ErrNotAuthenticated rejects search calls made before the gate
	// reached the authenticated state.
	ErrNotAuthenticated = errors.New("session not authenticated")
	// ErrInvalidQuery rejects searches with no region, address or
	// name constraint at all: the result set would be the whole
	// registry. Treated as user input error, not a failure.
	ErrInvalidQuery = errors.New("empty query: select a region or enter an address or business name")
)

// Gate authenticates sessions against the activation ledger and hands
// out Sessions that may query the registry. It is the only path to a
// Session; an unauthenticated caller never reaches the store.
//
// The gate bounds every remote round-trip with a timeout; an expired
// deadline surfaces as the backend's unavailable error, and no call
// is retried here.
type Gate struct {
	ledger        *ledger.Client
	store         *store.Store
	ledgerTimeout time.Duration
	storeTimeout  time.Duration
}

func NewGate(lc *ledger.Client, st *store.Store) *Gate {
	return &Gate{
		ledger:        lc,
		store:         st,
		ledgerTimeout: 15 * time.Second,
		storeTimeout:  10 * time.Second,
	}
}

// WithTimeouts overrides the default remote-call deadlines.
func (g *Gate) WithTimeouts(ledgerTimeout, storeTimeout time.Duration) *Gate {
	if ledgerTimeout > 0 {
		g.ledgerTimeout = ledgerTimeout
	}
	if storeTimeout > 0 {
		g.storeTimeout = storeTimeout
	}
	return g
}

// Authenticate exchanges a license key and caller identity for an
// activated Session. Rejection reasons are not distinguished.
func (g *Gate) Authenticate(ctx context.Context, licenseKey, apiKey string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, g.ledgerTimeout)
	defer cancel()
	if err := g.ledger.Authenticate(ctx, licenseKey, apiKey); err != nil {
		return nil, err
	}
	return &Session{
		gate:        g,
		activated:   true,
		LicenseKey:  licenseKey,
		BoundAPIKey: apiKey,
	}, nil
}

// Resume rebuilds a Session from a previously issued token's claims
// without touching the ledger. The token was only minted after a
// successful exchange, so the binding has already been verified.
func (g *Gate) Resume(licenseKey, apiKey string) *Session {
	return &Session{
		gate:        g,
		activated:   true,
		LicenseKey:  licenseKey,
		BoundAPIKey: apiKey,
	}
}

// Session is per-client, in-memory only. It is lost on process
// restart and the client must authenticate again; there is no logout
// transition.
type Session struct {
	gate        *Gate
	activated   bool
	LicenseKey  string
	BoundAPIKey string
}

func (s *Session) Activated() bool { return s.activated }

// Request is one search over the registry. Threshold follows match.New
// semantics: negative selects the policy default, zero is a real cutoff
// that accepts every score.
type Request struct {
	Regions   []string
	AddrQuery string
	NameQuery string
	Policy    match.Policy
	Threshold int
}

// Result carries both datasets, independently filtered.
type Result struct {
	Active []model.ActiveRecord `json:"active"`
	Closed []model.ClosedRecord `json:"closed"`
}

// Search runs the coarse store filter and the configured match policy
// over both datasets. The coarse name pre-filter is pushed into the
// store only for the plain token policy, whose substring semantics it
// can never over-narrow; the looser policies see every region/address
// candidate.
func (s *Session) Search(ctx context.Context, req Request) (*Result, error) {
	if s == nil || !s.activated {
		return nil, ErrNotAuthenticated
	}
	if len(req.Regions) == 0 && req.AddrQuery == "" && req.NameQuery == "" {
		return nil, ErrInvalidQuery
	}

	// A single-token substring query is the only shape the coarse
	// LIKE filter is provably narrower-or-equal for: a multi-token
	// query matches names with the tokens reordered, which a
	// contiguous LIKE would wrongly drop.
	coarseName := ""
	if req.Policy == match.PolicyToken && len(normalize.Tokens(req.NameQuery)) == 1 {
		coarseName = req.NameQuery
	}

	ctx, cancel := context.WithTimeout(ctx, s.gate.storeTimeout)
	defer cancel()

	active, closed, err := s.gate.store.Query(ctx, req.Regions, req.AddrQuery, coarseName)
	if err != nil {
		return nil, err
	}

	res := &Result{Active: active, Closed: closed}
	if req.NameQuery == "" {
		return res, nil
	}

	m := match.New(req.Policy, req.NameQuery, req.Threshold)

	kept := res.Active[:0:0]
	for _, r := range res.Active {
		if m.Match(r.NormalizedName) {
			kept = append(kept, r)
		}
	}
	res.Active = kept

	keptClosed := res.Closed[:0:0]
	for _, r := range res.Closed {
		if m.Match(r.NormalizedName) {
			keptClosed = append(keptClosed, r)
		}
	}
	res.Closed = keptClosed

	return res, nil
}
