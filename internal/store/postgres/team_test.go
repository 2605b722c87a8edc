package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nikhilmenon/auctiond/internal/clock"
	"github.com/nikhilmenon/auctiond/internal/store"
	"github.com/nikhilmenon/auctiond/internal/store/postgres"
)

func TestTeamRepo_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewTeamRepo(db, clock.Real{})
	ctx := context.Background()

	team := &store.Team{Name: "Chennai Kings", Wallet: 1000}
	if err := repo.Create(ctx, team); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if team.ID == "" {
		t.Fatal("expected ID to be set after Create")
	}

	got, err := repo.GetByID(ctx, team.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Chennai Kings" {
		t.Errorf("Name = %q, want %q", got.Name, "Chennai Kings")
	}
	if got.Wallet != 1000 {
		t.Errorf("Wallet = %d, want %d", got.Wallet, 1000)
	}
}

func TestTeamRepo_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewTeamRepo(db, clock.Real{})

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestTeamRepo_List(t *testing.T) {
	db := newTestDB(t)
	repo := postgres.NewTeamRepo(db, clock.Real{})
	ctx := context.Background()

	for _, name := range []string{"Mumbai Titans", "Delhi Chargers"} {
		if err := repo.Create(ctx, &store.Team{Name: name, Wallet: 500}); err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
	}

	teams, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("List returned %d teams, want 2", len(teams))
	}

	// Ordered by name ASC.
	if teams[0].Name != "Delhi Chargers" {
		t.Errorf("first team = %q, want %q", teams[0].Name, "Delhi Chargers")
	}
}
