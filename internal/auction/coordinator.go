package auction

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nikhilmenon/auctiond/internal/event"
	"github.com/nikhilmenon/auctiond/internal/store"
)

// Errors returned by coordinator commands.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNoActiveLot        = errors.New("no active lot")
	ErrLotAlreadyOpen     = errors.New("a lot is already open")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerAlreadySold  = errors.New("player already sold")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamRosterFull     = errors.New("team roster is full")
	ErrInsufficientWallet = errors.New("insufficient wallet")
)

// Coordinator owns the single Session and enforces every business rule of
// the live auction. A mutex serializes command bodies end to end, including
// their store round-trips, so two admin connections can never open two lots
// or double-sell a player.
type Coordinator struct {
	mu      sync.Mutex
	session *Session // nil when no lot is open

	teams     store.TeamRepository
	players   store.PlayerRepository
	bids      store.BidRepository
	sales     store.SaleRepository
	publisher event.Publisher

	secret    string
	rosterCap int
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewCoordinator creates a Coordinator over the given repositories.
func NewCoordinator(repos *store.Repositories, pub event.Publisher, secret string, rosterCap int, logger *slog.Logger, tp trace.TracerProvider) *Coordinator {
	return &Coordinator{
		teams:     repos.Teams,
		players:   repos.Players,
		bids:      repos.Bids,
		sales:     repos.Sales,
		publisher: pub,
		secret:    secret,
		rosterCap: rosterCap,
		logger:    logger,
		tracer:    tp.Tracer("github.com/nikhilmenon/auctiond/internal/auction"),
	}
}

// authorize checks the shared admin secret. It must be the first check of
// every command so a bad credential never learns anything about auction
// state.
func (c *Coordinator) authorize(token string) error {
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// CurrentLot returns a copy of the open session, or nil when no lot is open.
func (c *Coordinator) CurrentLot() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// OpenLot puts an unsold player up for bidding. The opening bid is the
// player's base price with no leading team.
func (c *Coordinator) OpenLot(ctx context.Context, playerID, token string) (*Session, error) {
	ctx, span := c.tracer.Start(ctx, "Coordinator.OpenLot",
		trace.WithAttributes(attribute.String("player.id", playerID)),
	)
	defer span.End()

	if err := c.authorize(token); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return nil, ErrLotAlreadyOpen
	}

	player, err := c.players.GetByID(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading player: %w", err)
	}
	if player.Status == store.StatusSold {
		return nil, ErrPlayerAlreadySold
	}

	c.session = &Session{PlayerID: player.ID, HighestBid: player.BasePrice}

	c.publisher.Publish(ctx, event.Event{Type: event.LotOpened, Data: event.LotOpenedData{
		PlayerID:  player.ID,
		Name:      player.Name,
		Role:      player.Role,
		Age:       player.Age,
		BasePrice: player.BasePrice,
	}})
	c.publisher.Publish(ctx, event.Event{Type: event.StatusChanged, Data: event.StatusChangedData{Status: event.StatusOpen}})

	c.logger.InfoContext(ctx, "lot opened",
		slog.String("player_id", player.ID),
		slog.Int("base_price", player.BasePrice),
	)
	s := *c.session
	return &s, nil
}

// RecordBid records an admin-supplied bid for a team on the open lot. Any
// amount the wallet covers is accepted; the admin is trusted to call
// amounts, so no strict-increase rule is applied.
func (c *Coordinator) RecordBid(ctx context.Context, teamID string, amount int, token string) error {
	ctx, span := c.tracer.Start(ctx, "Coordinator.RecordBid",
		trace.WithAttributes(
			attribute.String("team.id", teamID),
			attribute.Int("bid.amount", amount),
		),
	)
	defer span.End()

	if err := c.authorize(token); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return ErrNoActiveLot
	}

	team, err := c.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTeamNotFound
	}
	if err != nil {
		return fmt.Errorf("loading team: %w", err)
	}
	if team.Wallet < amount {
		return ErrInsufficientWallet
	}

	// Persist the audit row before touching the session so a store failure
	// leaves everything unchanged.
	bid := &store.Bid{Amount: amount, TeamID: team.ID, PlayerID: c.session.PlayerID}
	if err := c.bids.Append(ctx, bid); err != nil {
		return fmt.Errorf("appending bid: %w", err)
	}

	c.session.HighestBid = amount
	c.session.LeadingTeamID = team.ID

	c.publisher.Publish(ctx, event.Event{Type: event.BidRecorded, Data: event.BidRecordedData{
		PlayerID: c.session.PlayerID,
		TeamID:   team.ID,
		Amount:   amount,
	}})

	c.logger.InfoContext(ctx, "bid recorded",
		slog.String("player_id", c.session.PlayerID),
		slog.String("team_id", team.ID),
		slog.Int("amount", amount),
	)
	return nil
}

// FinalizeSale closes the open lot by selling the player to a team at the
// given price. The persisted mutation is one all-or-nothing transaction;
// the session is released only after it commits, so a store failure leaves
// the lot open for a retry.
func (c *Coordinator) FinalizeSale(ctx context.Context, playerID, teamID string, price int, token string) error {
	ctx, span := c.tracer.Start(ctx, "Coordinator.FinalizeSale",
		trace.WithAttributes(
			attribute.String("player.id", playerID),
			attribute.String("team.id", teamID),
			attribute.Int("sale.price", price),
		),
	)
	defer span.End()

	if err := c.authorize(token); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return ErrNoActiveLot
	}

	player, err := c.players.GetByID(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPlayerNotFound
	}
	if err != nil {
		return fmt.Errorf("loading player: %w", err)
	}
	if player.Status == store.StatusSold {
		return ErrPlayerAlreadySold
	}

	team, err := c.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTeamNotFound
	}
	if err != nil {
		return fmt.Errorf("loading team: %w", err)
	}

	rosterSize, err := c.players.CountByTeam(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("counting roster: %w", err)
	}
	if rosterSize >= c.rosterCap {
		return ErrTeamRosterFull
	}
	if team.Wallet < price {
		return ErrInsufficientWallet
	}

	if err := c.sales.FinalizeSale(ctx, player.ID, team.ID, price); err != nil {
		return fmt.Errorf("finalizing sale: %w", err)
	}

	c.session = nil

	c.publisher.Publish(ctx, event.Event{Type: event.PlayerSold, Data: event.PlayerSoldData{
		PlayerID: player.ID,
		TeamID:   team.ID,
		Price:    price,
	}})
	c.publisher.Publish(ctx, event.Event{Type: event.StatusChanged, Data: event.StatusChangedData{Status: event.StatusSold}})

	c.logger.InfoContext(ctx, "player sold",
		slog.String("player_id", player.ID),
		slog.String("team_id", team.ID),
		slog.Int("price", price),
	)
	return nil
}

// MarkUnsold closes the open lot without a sale. The player stays UNSOLD
// and can be reopened later.
func (c *Coordinator) MarkUnsold(ctx context.Context, token string) error {
	ctx, span := c.tracer.Start(ctx, "Coordinator.MarkUnsold")
	defer span.End()

	if err := c.authorize(token); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return ErrNoActiveLot
	}

	playerID := c.session.PlayerID
	c.session = nil

	c.publisher.Publish(ctx, event.Event{Type: event.StatusChanged, Data: event.StatusChangedData{Status: event.StatusUnsold}})

	c.logger.InfoContext(ctx, "lot closed unsold", slog.String("player_id", playerID))
	return nil
}
