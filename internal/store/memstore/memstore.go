// Package memstore provides a store.Driver backed by in-process maps. It is
// used by unit tests and for demo runs without a Postgres instance; it keeps
// the same invariants the postgres driver enforces with guarded UPDATEs.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikhilmenon/auctiond/internal/clock"
	"github.com/nikhilmenon/auctiond/internal/config"
	"github.com/nikhilmenon/auctiond/internal/store"
)

// closerFunc adapts a func() error into an io.Closer.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func init() {
	store.Register("memory", openMemory)
}

// openMemory is the store.Driver for the "memory" backend.
func openMemory(ctx context.Context, cfg config.DatabaseConfig, clk clock.Clock) (*store.Repositories, error) {
	return Open(clk), nil
}

// Open builds Repositories over a fresh in-memory dataset.
func Open(clk clock.Clock) *store.Repositories {
	d := &data{
		clock:   clk,
		teams:   make(map[string]store.Team),
		players: make(map[string]store.Player),
	}
	return &store.Repositories{
		Teams:   &TeamRepo{d},
		Players: &PlayerRepo{d},
		Bids:    &BidRepo{d},
		Sales:   &SaleRepo{d},
		Closer:  closerFunc(func() error { return nil }),
		Ping:    func(context.Context) error { return nil },
	}
}

// data holds all tables behind one mutex, which also makes FinalizeSale
// atomic without explicit transactions.
type data struct {
	mu      sync.RWMutex
	clock   clock.Clock
	teams   map[string]store.Team
	players map[string]store.Player
	bids    []store.Bid
}

// SaleRepo implements store.SaleRepository.
type SaleRepo struct{ d *data }

// FinalizeSale applies all three mutations under one lock; validation
// happens before the first write so a failure never leaves partial state.
func (r *SaleRepo) FinalizeSale(ctx context.Context, playerID, teamID string, price int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	p, ok := r.d.players[playerID]
	if !ok {
		return fmt.Errorf("player %s: %w", playerID, store.ErrNotFound)
	}
	if p.Status != store.StatusUnsold {
		return fmt.Errorf("player %s not unsold: %w", playerID, store.ErrConflict)
	}
	t, ok := r.d.teams[teamID]
	if !ok {
		return fmt.Errorf("team %s: %w", teamID, store.ErrNotFound)
	}
	if t.Wallet < price {
		return fmt.Errorf("team %s wallet below %d: %w", teamID, price, store.ErrConflict)
	}

	p.Status = store.StatusSold
	p.TeamID = &t.ID
	t.Wallet -= price
	r.d.players[playerID] = p
	r.d.teams[teamID] = t
	r.d.appendBidLocked(price, teamID, playerID)
	return nil
}
