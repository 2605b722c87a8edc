package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nikhilmenon/auctiond/internal/clock"
	"github.com/nikhilmenon/auctiond/internal/store"
)

// BidRepo implements store.BidRepository with sqlx. Bids are append-only.
type BidRepo struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewBidRepo returns a new BidRepo.
func NewBidRepo(db *sqlx.DB, clk clock.Clock) *BidRepo {
	return &BidRepo{db: db, clock: clk}
}

func (r *BidRepo) Append(ctx context.Context, b *store.Bid) error {
	b.CreatedAt = r.clock.Now().UTC()
	return r.db.QueryRowContext(ctx,
		`INSERT INTO bids (amount, team_id, player_id, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		b.Amount, b.TeamID, b.PlayerID, b.CreatedAt,
	).Scan(&b.ID)
}

func (r *BidRepo) ListRecent(ctx context.Context, limit int) ([]store.Bid, error) {
	var bids []store.Bid
	err := r.db.SelectContext(ctx, &bids,
		`SELECT * FROM bids ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent bids: %w", err)
	}
	return bids, nil
}

func (r *BidRepo) ListByTeam(ctx context.Context, teamID string) ([]store.Bid, error) {
	var bids []store.Bid
	err := r.db.SelectContext(ctx, &bids,
		`SELECT * FROM bids WHERE team_id = $1 ORDER BY created_at ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing bids by team: %w", err)
	}
	return bids, nil
}
