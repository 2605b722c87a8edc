package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/nikhilmenon/auctiond/internal/store"
)

// PlayerRepo implements store.PlayerRepository over the shared dataset.
type PlayerRepo struct{ d *data }

func (r *PlayerRepo) Create(ctx context.Context, p *store.Player) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p.ID = uuid.NewString()
	if p.Status == "" {
		p.Status = store.StatusUnsold
	}
	p.CreatedAt = r.d.clock.Now().UTC()
	r.d.players[p.ID] = *p
	return nil
}

func (r *PlayerRepo) GetByID(ctx context.Context, id string) (*store.Player, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	p, ok := r.d.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (r *PlayerRepo) List(ctx context.Context) ([]store.Player, error) {
	return r.filter(func(store.Player) bool { return true })
}

func (r *PlayerRepo) ListByStatus(ctx context.Context, status string) ([]store.Player, error) {
	return r.filter(func(p store.Player) bool { return p.Status == status })
}

func (r *PlayerRepo) ListByTeam(ctx context.Context, teamID string) ([]store.Player, error) {
	return r.filter(func(p store.Player) bool { return p.TeamID != nil && *p.TeamID == teamID })
}

func (r *PlayerRepo) CountByTeam(ctx context.Context, teamID string) (int, error) {
	players, err := r.ListByTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}
	return len(players), nil
}

func (r *PlayerRepo) filter(keep func(store.Player) bool) ([]store.Player, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	var players []store.Player
	for _, p := range r.d.players {
		if keep(p) {
			players = append(players, p)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players, nil
}
