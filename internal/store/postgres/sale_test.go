package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nikhilmenon/auctiond/internal/clock"
	"github.com/nikhilmenon/auctiond/internal/store"
	"github.com/nikhilmenon/auctiond/internal/store/postgres"
)

func seedTeamAndPlayer(t *testing.T, teams *postgres.TeamRepo, players *postgres.PlayerRepo) (*store.Team, *store.Player) {
	t.Helper()
	ctx := context.Background()

	team := &store.Team{Name: "Punjab Strikers", Wallet: 500}
	if err := teams.Create(ctx, team); err != nil {
		t.Fatalf("creating team: %v", err)
	}
	player := &store.Player{Name: "R Sharma", Role: store.RoleBatsman, Age: 27, BasePrice: 50}
	if err := players.Create(ctx, player); err != nil {
		t.Fatalf("creating player: %v", err)
	}
	return team, player
}

func TestSaleRepo_FinalizeSale(t *testing.T) {
	db := newTestDB(t)
	teams := postgres.NewTeamRepo(db, clock.Real{})
	players := postgres.NewPlayerRepo(db, clock.Real{})
	bids := postgres.NewBidRepo(db, clock.Real{})
	sales := postgres.NewSaleRepo(db, clock.Real{})
	ctx := context.Background()

	team, player := seedTeamAndPlayer(t, teams, players)

	if err := sales.FinalizeSale(ctx, player.ID, team.ID, 120); err != nil {
		t.Fatalf("FinalizeSale: %v", err)
	}

	gotPlayer, err := players.GetByID(ctx, player.ID)
	if err != nil {
		t.Fatalf("GetByID(player): %v", err)
	}
	if gotPlayer.Status != store.StatusSold {
		t.Errorf("player status = %q, want %q", gotPlayer.Status, store.StatusSold)
	}
	if gotPlayer.TeamID == nil || *gotPlayer.TeamID != team.ID {
		t.Errorf("player team = %v, want %s", gotPlayer.TeamID, team.ID)
	}

	gotTeam, err := teams.GetByID(ctx, team.ID)
	if err != nil {
		t.Fatalf("GetByID(team): %v", err)
	}
	if gotTeam.Wallet != 380 {
		t.Errorf("wallet = %d, want %d", gotTeam.Wallet, 380)
	}

	teamBids, err := bids.ListByTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("ListByTeam: %v", err)
	}
	if len(teamBids) != 1 || teamBids[0].Amount != 120 {
		t.Errorf("terminal bid = %+v, want one bid of 120", teamBids)
	}
}

func TestSaleRepo_FinalizeSale_AlreadySold(t *testing.T) {
	db := newTestDB(t)
	teams := postgres.NewTeamRepo(db, clock.Real{})
	players := postgres.NewPlayerRepo(db, clock.Real{})
	sales := postgres.NewSaleRepo(db, clock.Real{})
	ctx := context.Background()

	team, player := seedTeamAndPlayer(t, teams, players)

	if err := sales.FinalizeSale(ctx, player.ID, team.ID, 100); err != nil {
		t.Fatalf("first FinalizeSale: %v", err)
	}

	err := sales.FinalizeSale(ctx, player.ID, team.ID, 100)
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second FinalizeSale error = %v, want ErrConflict", err)
	}

	// Wallet must be debited exactly once.
	gotTeam, _ := teams.GetByID(ctx, team.ID)
	if gotTeam.Wallet != 400 {
		t.Errorf("wallet = %d, want %d", gotTeam.Wallet, 400)
	}
}

func TestSaleRepo_FinalizeSale_InsufficientWallet(t *testing.T) {
	db := newTestDB(t)
	teams := postgres.NewTeamRepo(db, clock.Real{})
	players := postgres.NewPlayerRepo(db, clock.Real{})
	bids := postgres.NewBidRepo(db, clock.Real{})
	sales := postgres.NewSaleRepo(db, clock.Real{})
	ctx := context.Background()

	team, player := seedTeamAndPlayer(t, teams, players)

	err := sales.FinalizeSale(ctx, player.ID, team.ID, 9999)
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("FinalizeSale error = %v, want ErrConflict", err)
	}

	// All-or-nothing: the player must still be unsold and no bid recorded.
	gotPlayer, _ := players.GetByID(ctx, player.ID)
	if gotPlayer.Status != store.StatusUnsold {
		t.Errorf("player status = %q, want %q", gotPlayer.Status, store.StatusUnsold)
	}
	teamBids, _ := bids.ListByTeam(ctx, team.ID)
	if len(teamBids) != 0 {
		t.Errorf("bids = %d, want 0", len(teamBids))
	}
}

func TestBidRepo_AppendAndListRecent(t *testing.T) {
	db := newTestDB(t)
	teams := postgres.NewTeamRepo(db, clock.Real{})
	players := postgres.NewPlayerRepo(db, clock.Real{})
	bids := postgres.NewBidRepo(db, clock.Real{})
	ctx := context.Background()

	team, player := seedTeamAndPlayer(t, teams, players)

	for _, amount := range []int{60, 80, 100} {
		if err := bids.Append(ctx, &store.Bid{Amount: amount, TeamID: team.ID, PlayerID: player.ID}); err != nil {
			t.Fatalf("Append(%d): %v", amount, err)
		}
	}

	got, err := bids.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRecent returned %d bids, want 2", len(got))
	}
}

func TestPlayerRepo_ListByStatusAndCount(t *testing.T) {
	db := newTestDB(t)
	teams := postgres.NewTeamRepo(db, clock.Real{})
	players := postgres.NewPlayerRepo(db, clock.Real{})
	sales := postgres.NewSaleRepo(db, clock.Real{})
	ctx := context.Background()

	team, player := seedTeamAndPlayer(t, teams, players)
	other := &store.Player{Name: "J Bumrah", Role: store.RoleBowler, Age: 30, BasePrice: 80}
	if err := players.Create(ctx, other); err != nil {
		t.Fatalf("creating player: %v", err)
	}

	if err := sales.FinalizeSale(ctx, player.ID, team.ID, 50); err != nil {
		t.Fatalf("FinalizeSale: %v", err)
	}

	unsold, err := players.ListByStatus(ctx, store.StatusUnsold)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(unsold) != 1 || unsold[0].ID != other.ID {
		t.Errorf("unsold = %+v, want only the second player", unsold)
	}

	n, err := players.CountByTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("CountByTeam: %v", err)
	}
	if n != 1 {
		t.Errorf("CountByTeam = %d, want 1", n)
	}
}
