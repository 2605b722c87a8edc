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

// PlayerRepo implements store.PlayerRepository with sqlx.
type PlayerRepo struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewPlayerRepo returns a new PlayerRepo.
func NewPlayerRepo(db *sqlx.DB, clk clock.Clock) *PlayerRepo {
	return &PlayerRepo{db: db, clock: clk}
}

func (r *PlayerRepo) Create(ctx context.Context, p *store.Player) error {
	if p.Status == "" {
		p.Status = store.StatusUnsold
	}
	p.CreatedAt = r.clock.Now().UTC()
	return r.db.QueryRowContext(ctx,
		`INSERT INTO players (name, role, age, base_price, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.Name, p.Role, p.Age, p.BasePrice, p.Status, p.CreatedAt,
	).Scan(&p.ID)
}

func (r *PlayerRepo) GetByID(ctx context.Context, id string) (*store.Player, error) {
	var p store.Player
	err := r.db.GetContext(ctx, &p, `SELECT * FROM players WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}
	return &p, nil
}

func (r *PlayerRepo) List(ctx context.Context) ([]store.Player, error) {
	var players []store.Player
	err := r.db.SelectContext(ctx, &players, `SELECT * FROM players ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	return players, nil
}

func (r *PlayerRepo) ListByStatus(ctx context.Context, status string) ([]store.Player, error) {
	var players []store.Player
	err := r.db.SelectContext(ctx, &players,
		`SELECT * FROM players WHERE status = $1 ORDER BY name ASC`, status)
	if err != nil {
		return nil, fmt.Errorf("listing players by status: %w", err)
	}
	return players, nil
}

func (r *PlayerRepo) ListByTeam(ctx context.Context, teamID string) ([]store.Player, error) {
	var players []store.Player
	err := r.db.SelectContext(ctx, &players,
		`SELECT * FROM players WHERE team_id = $1 ORDER BY name ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing players by team: %w", err)
	}
	return players, nil
}

func (r *PlayerRepo) CountByTeam(ctx context.Context, teamID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM players WHERE team_id = $1`, teamID)
	if err != nil {
		return 0, fmt.Errorf("counting players by team: %w", err)
	}
	return n, nil
}
