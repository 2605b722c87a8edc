package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nikhilmenon/auctiond/internal/clock"
	"github.com/nikhilmenon/auctiond/internal/store"
)

// SaleRepo implements store.SaleRepository with a single transaction.
type SaleRepo struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewSaleRepo returns a new SaleRepo.
func NewSaleRepo(db *sqlx.DB, clk clock.Clock) *SaleRepo {
	return &SaleRepo{db: db, clock: clk}
}

// FinalizeSale marks the player SOLD, debits the team wallet and appends the
// terminal bid in one transaction. The UPDATE predicates re-check the
// invariants inside the transaction, so a stale pre-check can never
// double-sell a player or overdraw a wallet.
func (r *SaleRepo) FinalizeSale(ctx context.Context, playerID, teamID string, price int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE players SET status = $1, team_id = $2 WHERE id = $3 AND status = $4`,
		store.StatusSold, teamID, playerID, store.StatusUnsold,
	)
	if err != nil {
		return fmt.Errorf("marking player sold: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %s not unsold: %w", playerID, store.ErrConflict)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE teams SET wallet = wallet - $1 WHERE id = $2 AND wallet >= $1`,
		price, teamID,
	)
	if err != nil {
		return fmt.Errorf("debiting wallet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("team %s wallet below %d: %w", teamID, price, store.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bids (amount, team_id, player_id, created_at) VALUES ($1, $2, $3, $4)`,
		price, teamID, playerID, r.clock.Now().UTC(),
	); err != nil {
		return fmt.Errorf("appending terminal bid: %w", err)
	}

	return tx.Commit()
}
