package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nikhilmenon/auctiond/internal/clock"
	"github.com/nikhilmenon/auctiond/internal/store"
)

// TeamRepo implements store.TeamRepository with sqlx.
type TeamRepo struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewTeamRepo returns a new TeamRepo.
func NewTeamRepo(db *sqlx.DB, clk clock.Clock) *TeamRepo {
	return &TeamRepo{db: db, clock: clk}
}

func (r *TeamRepo) Create(ctx context.Context, t *store.Team) error {
	t.CreatedAt = r.clock.Now().UTC()
	return r.db.QueryRowContext(ctx,
		`INSERT INTO teams (name, wallet, created_at) VALUES ($1, $2, $3) RETURNING id`,
		t.Name, t.Wallet, t.CreatedAt,
	).Scan(&t.ID)
}

func (r *TeamRepo) GetByID(ctx context.Context, id string) (*store.Team, error) {
	var t store.Team
	err := r.db.GetContext(ctx, &t, `SELECT * FROM teams WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting team: %w", err)
	}
	return &t, nil
}

func (r *TeamRepo) List(ctx context.Context) ([]store.Team, error) {
	var teams []store.Team
	err := r.db.SelectContext(ctx, &teams, `SELECT * FROM teams ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return teams, nil
}
