package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/honeynil/player-service/internal/models"
	"github.com/honeynil/player-service/internal/repository"
	pkgerrors "github.com/honeynil/player-service/pkg/errors"
)

// PlayerRepository is an in-memory implementation of the player store.
// Stored players are copied in and out so callers never share state.
type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]models.Player
	nextID  int64
}

func New() *PlayerRepository {
	return &PlayerRepository{
		players: make(map[int64]models.Player),
		nextID:  1,
	}
}

var _ repository.PlayerRepository = (*PlayerRepository)(nil)

func (r *PlayerRepository) FindAll(ctx context.Context) ([]*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*models.Player, 0, len(ids))
	for _, id := range ids {
		p := r.players[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *PlayerRepository) FindByID(ctx context.Context, id int64) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	if !ok {
		return nil, pkgerrors.ErrPlayerNotFound
	}
	return &p, nil
}

func (r *PlayerRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.players[id]
	return ok, nil
}

func (r *PlayerRepository) Save(ctx context.Context, player *models.Player) error {
	if player == nil {
		return pkgerrors.ErrNilPlayer
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if player.ID == 0 {
		player.ID = r.nextID
		r.nextID++
	} else if _, ok := r.players[player.ID]; !ok {
		return pkgerrors.ErrPlayerNotFound
	}
	r.players[player.ID] = *player
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[id]; !ok {
		return pkgerrors.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

// Len returns the number of stored players.
func (r *PlayerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
