package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/nikhilmenon/auctiond/internal/store"
)

// TeamRepo implements store.TeamRepository over the shared dataset.
type TeamRepo struct{ d *data }

func (r *TeamRepo) Create(ctx context.Context, t *store.Team) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = r.d.clock.Now().UTC()
	r.d.teams[t.ID] = *t
	return nil
}

func (r *TeamRepo) GetByID(ctx context.Context, id string) (*store.Team, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	t, ok := r.d.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (r *TeamRepo) List(ctx context.Context) ([]store.Team, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	teams := make([]store.Team, 0, len(r.d.teams))
	for _, t := range r.d.teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}
