// Package seed loads the demo fixture used for event rehearsals: twelve
// teams with a full wallet and thirty-six unsold players.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nikhilmenon/auctiond/internal/config"
	"github.com/nikhilmenon/auctiond/internal/store"
)

const (
	teamCount   = 12
	playerCount = 36
)

var roles = []string{store.RoleBatsman, store.RoleBowler, store.RoleAllRounder, store.RoleWicketKeeper}

// Run inserts the fixture. It is a no-op when teams already exist, so
// rerunning with -seed cannot duplicate data.
func Run(ctx context.Context, repos *store.Repositories, cfg config.AuctionConfig, logger *slog.Logger) error {
	existing, err := repos.Teams.List(ctx)
	if err != nil {
		return fmt.Errorf("checking existing teams: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "seed skipped, teams already present", slog.Int("teams", len(existing)))
		return nil
	}

	for i := 1; i <= teamCount; i++ {
		team := &store.Team{
			Name:   fmt.Sprintf("Team %d", i),
			Wallet: cfg.DefaultWallet,
		}
		if err := repos.Teams.Create(ctx, team); err != nil {
			return fmt.Errorf("creating team %d: %w", i, err)
		}
	}

	for i := 1; i <= playerCount; i++ {
		player := &store.Player{
			Name:      fmt.Sprintf("Player %d", i),
			Role:      roles[i%len(roles)],
			Age:       18 + i%10,
			BasePrice: 50 + i*5,
		}
		if err := repos.Players.Create(ctx, player); err != nil {
			return fmt.Errorf("creating player %d: %w", i, err)
		}
	}

	logger.InfoContext(ctx, "seed finished",
		slog.Int("teams", teamCount),
		slog.Int("players", playerCount),
	)
	return nil
}
