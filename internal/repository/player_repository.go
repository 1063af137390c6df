package repository

import (
	"context"

	"github.com/honeynil/player-service/internal/models"
)

// PlayerRepository is the player store. FindByID returns
// errors.ErrPlayerNotFound for an unknown id.
type PlayerRepository interface {
	FindAll(ctx context.Context) ([]*models.Player, error)
	FindByID(ctx context.Context, id int64) (*models.Player, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Save inserts the player when its ID is zero and assigns the new ID,
	// otherwise it replaces the stored record with the same ID.
	Save(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int64) error
}
