// Package notify mirrors auction events into a Discord channel so remote
// followers without the viewer page open still see the action.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/nikhilmenon/auctiond/internal/config"
	"github.com/nikhilmenon/auctiond/internal/event"
	"github.com/nikhilmenon/auctiond/internal/store"
)

// Sender is the slice of discordgo.Session the announcer needs.
type Sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Connect opens a Discord session for the announcer.
func Connect(cfg config.DiscordConfig) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("opening discord session: %w", err)
	}
	return session, nil
}

// Announcer consumes auction events and posts one message per event. Send
// failures are logged and skipped; the announcer never blocks the auction.
type Announcer struct {
	sender  Sender
	channel string
	teams   store.TeamRepository
	players store.PlayerRepository
	logger  *slog.Logger
}

// New creates an Announcer posting to cfg.ChannelID.
func New(cfg config.DiscordConfig, sender Sender, repos *store.Repositories, logger *slog.Logger) *Announcer {
	return &Announcer{
		sender:  sender,
		channel: cfg.ChannelID,
		teams:   repos.Teams,
		players: repos.Players,
		logger:  logger,
	}
}

// Run consumes events until the channel closes or ctx is cancelled.
func (a *Announcer) Run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			msg := a.message(ctx, e)
			if msg == "" {
				continue
			}
			if _, err := a.sender.ChannelMessageSend(a.channel, msg); err != nil {
				a.logger.WarnContext(ctx, "discord send failed",
					slog.String("event", string(e.Type)),
					slog.Any("error", err),
				)
			}
		}
	}
}

// message renders an event, or "" for events not worth announcing.
func (a *Announcer) message(ctx context.Context, e event.Event) string {
	switch data := e.Data.(type) {
	case event.LotOpenedData:
		return fmt.Sprintf("Lot open: %s (%s, age %d) at base price %d", data.Name, data.Role, data.Age, data.BasePrice)
	case event.BidRecordedData:
		return fmt.Sprintf("%s bids %d for %s", a.teamName(ctx, data.TeamID), data.Amount, a.playerName(ctx, data.PlayerID))
	case event.PlayerSoldData:
		return fmt.Sprintf("SOLD: %s to %s for %d", a.playerName(ctx, data.PlayerID), a.teamName(ctx, data.TeamID), data.Price)
	case event.StatusChangedData:
		if data.Status == event.StatusUnsold {
			return "Lot closed unsold"
		}
		// OPEN and SOLD are already covered by their own events.
		return ""
	default:
		return ""
	}
}

func (a *Announcer) teamName(ctx context.Context, id string) string {
	t, err := a.teams.GetByID(ctx, id)
	if err != nil {
		return id
	}
	return t.Name
}

func (a *Announcer) playerName(ctx context.Context, id string) string {
	p, err := a.players.GetByID(ctx, id)
	if err != nil {
		return id
	}
	return p.Name
}
