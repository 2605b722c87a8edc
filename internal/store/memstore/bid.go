package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/nikhilmenon/auctiond/internal/store"
)

// BidRepo implements store.BidRepository over the shared dataset.
type BidRepo struct{ d *data }

func (r *BidRepo) Append(ctx context.Context, b *store.Bid) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	appended := r.d.appendBidLocked(b.Amount, b.TeamID, b.PlayerID)
	b.ID = appended.ID
	b.CreatedAt = appended.CreatedAt
	return nil
}

func (r *BidRepo) ListRecent(ctx context.Context, limit int) ([]store.Bid, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	// Newest first.
	var bids []store.Bid
	for i := len(r.d.bids) - 1; i >= 0 && len(bids) < limit; i-- {
		bids = append(bids, r.d.bids[i])
	}
	return bids, nil
}

func (r *BidRepo) ListByTeam(ctx context.Context, teamID string) ([]store.Bid, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	var bids []store.Bid
	for _, b := range r.d.bids {
		if b.TeamID == teamID {
			bids = append(bids, b)
		}
	}
	return bids, nil
}

// appendBidLocked appends a bid row; callers must hold d.mu.
func (d *data) appendBidLocked(amount int, teamID, playerID string) store.Bid {
	b := store.Bid{
		ID:        uuid.NewString(),
		Amount:    amount,
		TeamID:    teamID,
		PlayerID:  playerID,
		CreatedAt: d.clock.Now().UTC(),
	}
	d.bids = append(d.bids, b)
	return b
}
