package store

import (
	"context"
	"errors"
	"time"
)

// Player auction status values.
const (
	StatusUnsold = "UNSOLD"
	StatusSold   = "SOLD"
)

// Player roles.
const (
	RoleBatsman      = "Batsman"
	RoleBowler       = "Bowler"
	RoleAllRounder   = "All-Rounder"
	RoleWicketKeeper = "Wicket-Keeper"
)

// Errors returned by repositories. Drivers must return these (possibly
// wrapped) so callers can map them with errors.Is.
var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict signals a guarded update that matched no rows, e.g.
	// selling an already-sold player or overdrawing a wallet inside the
	// sale transaction.
	ErrConflict = errors.New("conflicting update")
)

// Team represents a franchise bidding in the auction.
type Team struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Wallet    int       `db:"wallet" json:"wallet"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Player represents a player that can be put up for bidding.
type Player struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	Age       int       `db:"age" json:"age"`
	BasePrice int       `db:"base_price" json:"basePrice"`
	Status    string    `db:"status" json:"status"`
	TeamID    *string   `db:"team_id" json:"teamId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Bid is an append-only audit record. The final sale is recorded as a
// terminal bid whose amount equals the sale price.
type Bid struct {
	ID        string    `db:"id" json:"id"`
	Amount    int       `db:"amount" json:"amount"`
	TeamID    string    `db:"team_id" json:"teamId"`
	PlayerID  string    `db:"player_id" json:"playerId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TeamRepository defines team persistence operations.
type TeamRepository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id string) (*Team, error)
	List(ctx context.Context) ([]Team, error)
}

// PlayerRepository defines player persistence operations.
type PlayerRepository interface {
	Create(ctx context.Context, p *Player) error
	GetByID(ctx context.Context, id string) (*Player, error)
	List(ctx context.Context) ([]Player, error)
	ListByStatus(ctx context.Context, status string) ([]Player, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
}

// BidRepository defines bid persistence operations. Bids are never updated
// or deleted.
type BidRepository interface {
	Append(ctx context.Context, b *Bid) error
	ListRecent(ctx context.Context, limit int) ([]Bid, error)
	ListByTeam(ctx context.Context, teamID string) ([]Bid, error)
}

// SaleRepository finalizes a sale atomically: the player becomes SOLD and
// owned by the team, the team wallet is debited, and a terminal bid is
// appended. Either all three happen or none do.
type SaleRepository interface {
	FinalizeSale(ctx context.Context, playerID, teamID string, price int) error
}
