package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/honeynil/player-service/internal/infrastructure/observability"
	"github.com/honeynil/player-service/internal/models"
	pkgerrors "github.com/honeynil/player-service/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	idsKey = "players:ids"
	seqKey = "players:seq"
)

func playerKey(id int64) string {
	return fmt.Sprintf("player:%d", id)
}

// RedisPlayerRepository keeps each player as JSON under player:{id} and
// indexes ids in a sorted set scored by id, so FindAll returns id order.
type RedisPlayerRepository struct {
	client *redis.Client
}

func NewRedisPlayerRepository(client *redis.Client) *RedisPlayerRepository {
	return &RedisPlayerRepository{client: client}
}

func (r *RedisPlayerRepository) FindAll(ctx context.Context) (players []*models.Player, err error) {
	ctx, span := otel.Tracer("player-repository").Start(ctx, "FindAllPlayers")
	defer span.End()
	start := time.Now()
	defer func() { observability.RecordRepositoryCall(span, "FindAllPlayers", start, err) }()

	ids, err := r.client.ZRange(ctx, idsKey, 0, -1).Result()
	if err != nil {
		slog.Error("failed to list player ids", "method", "FindAll", "error", err)
		return nil, fmt.Errorf("failed to list player ids: %w", err)
	}

	players = make([]*models.Player, 0, len(ids))
	if len(ids) == 0 {
		return players, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "player:" + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Error("failed to load players", "method", "FindAll", "error", err)
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// index entry without a record; skip it
			slog.Warn("dangling player id in index", "method", "FindAll", "player_id", ids[i])
			continue
		}
		var p models.Player
		if err = json.Unmarshal([]byte(s), &p); err != nil {
			slog.Error("failed to decode player", "method", "FindAll", "player_id", ids[i], "error", err)
			return nil, fmt.Errorf("failed to decode player %s: %w", ids[i], err)
		}
		players = append(players, &p)
	}

	span.SetAttributes(attribute.Int("players.count", len(players)))
	return players, nil
}

func (r *RedisPlayerRepository) FindByID(ctx context.Context, id int64) (player *models.Player, err error) {
	ctx, span := otel.Tracer("player-repository").Start(ctx, "FindPlayerByID")
	span.SetAttributes(attribute.Int64("player_id", id))
	defer span.End()
	start := time.Now()
	defer func() {
		callErr := err
		if stderrors.Is(err, pkgerrors.ErrPlayerNotFound) {
			callErr = nil
		}
		observability.RecordRepositoryCall(span, "FindPlayerByID", start, callErr)
	}()

	data, err := r.client.Get(ctx, playerKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, pkgerrors.ErrPlayerNotFound
	}
	if err != nil {
		slog.Error("failed to get player by id", "method", "FindByID", "player_id", id, "error", err)
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	var p models.Player
	if err = json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode player %d: %w", id, err)
	}
	return &p, nil
}

func (r *RedisPlayerRepository) ExistsByID(ctx context.Context, id int64) (exists bool, err error) {
	ctx, span := otel.Tracer("player-repository").Start(ctx, "PlayerExistsByID")
	span.SetAttributes(attribute.Int64("player_id", id))
	defer span.End()
	start := time.Now()
	defer func() { observability.RecordRepositoryCall(span, "PlayerExistsByID", start, err) }()

	n, err := r.client.Exists(ctx, playerKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check player existence: %w", err)
	}
	return n > 0, nil
}

func (r *RedisPlayerRepository) Save(ctx context.Context, player *models.Player) (err error) {
	ctx, span := otel.Tracer("player-repository").Start(ctx, "SavePlayer")
	defer span.End()
	start := time.Now()
	defer func() { observability.RecordRepositoryCall(span, "SavePlayer", start, err) }()

	if player == nil {
		err = pkgerrors.ErrNilPlayer
		return err
	}

	id := player.ID
	if id == 0 {
		if id, err = r.client.Incr(ctx, seqKey).Result(); err != nil {
			slog.Error("failed to allocate player id", "method", "Save", "error", err)
			return fmt.Errorf("failed to allocate player id: %w", err)
		}
	} else {
		var exists bool
		if exists, err = r.ExistsByID(ctx, id); err != nil {
			return err
		}
		if !exists {
			err = pkgerrors.ErrPlayerNotFound
			return err
		}
	}

	stored := *player
	stored.ID = id
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode player: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, playerKey(id), data, 0)
		pipe.ZAdd(ctx, idsKey, redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)})
		return nil
	})
	if err != nil {
		slog.Error("failed to save player", "method", "Save", "player_id", id, "error", err)
		return fmt.Errorf("failed to save player: %w", err)
	}

	player.ID = id
	span.SetAttributes(attribute.Int64("player_id", id))
	slog.Info("player saved", "method", "Save", "player_id", id, "name", player.Name)
	return nil
}

func (r *RedisPlayerRepository) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := otel.Tracer("player-repository").Start(ctx, "DeletePlayer")
	span.SetAttributes(attribute.Int64("player_id", id))
	defer span.End()
	start := time.Now()
	defer func() { observability.RecordRepositoryCall(span, "DeletePlayer", start, err) }()

	var del *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, playerKey(id))
		pipe.ZRem(ctx, idsKey, strconv.FormatInt(id, 10))
		return nil
	})
	if err != nil {
		slog.Error("failed to delete player", "method", "Delete", "player_id", id, "error", err)
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if del.Val() == 0 {
		err = pkgerrors.ErrPlayerNotFound
		return err
	}

	slog.Info("player deleted", "method", "Delete", "player_id", id)
	return nil
}
