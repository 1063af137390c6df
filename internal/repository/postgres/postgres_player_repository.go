package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/player-service/internal/infrastructure/observability"
	"github.com/honeynil/player-service/internal/models"
	pkgerrors "github.com/honeynil/player-service/pkg/errors"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	playerColumns = `id, name, title, race, profession, birthday, banned, experience, level, until_next_level`

	queryFindAll    = `SELECT ` + playerColumns + ` FROM players ORDER BY id`
	queryFindByID   = `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	queryExistsByID = `SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`
	queryInsert     = `INSERT INTO players (name, title, race, profession, birthday, banned, experience, level, until_next_level) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	queryUpdate     = `UPDATE players SET name = $1, title = $2, race = $3, profession = $4, birthday = $5, banned = $6, experience = $7, level = $8, until_next_level = $9 WHERE id = $10`
	queryDelete     = `DELETE FROM players WHERE id = $1`

	schema = `
CREATE TABLE IF NOT EXISTS players (
	id               BIGSERIAL PRIMARY KEY,
	name             VARCHAR(12) NOT NULL CHECK (char_length(btrim(name)) > 0),
	title            VARCHAR(30) NOT NULL,
	race             VARCHAR(20) NOT NULL,
	profession       VARCHAR(20) NOT NULL,
	birthday         TIMESTAMPTZ NOT NULL CHECK (birthday > '2000-01-01T00:00:00Z' AND birthday < '3000-01-01T00:00:00Z'),
	banned           BOOLEAN NOT NULL DEFAULT FALSE,
	experience       INTEGER NOT NULL CHECK (experience BETWEEN 0 AND 10000000),
	level            INTEGER NOT NULL CHECK (level >= 0),
	until_next_level INTEGER NOT NULL CHECK (until_next_level > 0)
)`

	pqCheckViolation = "23514"
)

type PostgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) *PostgresPlayerRepository {
	return &PostgresPlayerRepository{db: db}
}

// EnsureSchema creates the players table when it does not exist yet.
func (r *PostgresPlayerRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create players table: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Title,
		&p.Race,
		&p.Profession,
		&p.Birthday,
		&p.Banned,
		&p.Experience,
		&p.Level,
		&p.UntilNextLevel,
	)
	if err != nil {
		return nil, err
	}
	p.Birthday = p.Birthday.UTC()
	return &p, nil
}

func (r *PostgresPlayerRepository) FindAll(ctx context.Context) (players []*models.Player, err error) {
	tracer := otel.Tracer("player-repository")
	ctx, span := tracer.Start(ctx, "FindAllPlayers")
	defer span.End()
	start := time.Now()
	defer func() { observability.RecordRepositoryCall(span, "FindAllPlayers", start, err) }()

	rows, err := r.db.QueryContext(ctx, queryFindAll)
	if err != nil {
		slog.Error("failed to query players", "method", "FindAll", "error", err)
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players = make([]*models.Player, 0)
	for rows.Next() {
		p, scanErr := scanPlayer(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan player: %w", scanErr)
			slog.Error("failed to scan player", "method", "FindAll", "error", scanErr)
			return nil, err
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		slog.Error("failed to iterate players", "method", "FindAll", "error", err)
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	span.SetAttributes(attribute.Int("players.count", len(players)))
	slog.Debug("players retrieved", "method", "FindAll", "count", len(players))
	return players, nil
}

func (r *PostgresPlayerRepository) FindByID(ctx context.Context, id int64) (player *models.Player, err error) {
	tracer := otel.Tracer("player-repository")
	ctx, span := tracer.Start(ctx, "FindPlayerByID")
	span.SetAttributes(attribute.Int64("player_id", id))
	defer span.End()
	start := time.Now()
	defer func() {
		// a missing row is an expected outcome, not a failed call
		callErr := err
		if stderrors.Is(err, pkgerrors.ErrPlayerNotFound) {
			callErr = nil
		}
		observability.RecordRepositoryCall(span, "FindPlayerByID", start, callErr)
	}()

	player, err = scanPlayer(r.db.QueryRowContext(ctx, queryFindByID, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		slog.Info("player not found", "method", "FindByID", "player_id", id)
		return nil, pkgerrors.ErrPlayerNotFound
	}
	if err != nil {
		slog.Error("failed to get player by id", "method", "FindByID", "player_id", id, "error", err)
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}
	return player, nil
}

func (r *PostgresPlayerRepository) ExistsByID(ctx context.Context, id int64) (exists bool, err error) {
	tracer := otel.Tracer("player-repository")
	ctx, span := tracer.Start(ctx, "PlayerExistsByID")
	span.SetAttributes(attribute.Int64("player_id", id))
	defer span.End()
	start := time.Now()
	defer func() { observability.RecordRepositoryCall(span, "PlayerExistsByID", start, err) }()

	if err = r.db.QueryRowContext(ctx, queryExistsByID, id).Scan(&exists); err != nil {
		slog.Error("failed to check player existence", "method", "ExistsByID", "player_id", id, "error", err)
		return false, fmt.Errorf("failed to check player existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresPlayerRepository) Save(ctx context.Context, player *models.Player) (err error) {
	tracer := otel.Tracer("player-repository")
	ctx, span := tracer.Start(ctx, "SavePlayer")
	defer span.End()
	start := time.Now()
	defer func() { observability.RecordRepositoryCall(span, "SavePlayer", start, err) }()

	if player == nil {
		err = pkgerrors.ErrNilPlayer
		slog.Error("failed to save player", "method", "Save", "error", err)
		return err
	}
	span.SetAttributes(attribute.Int64("player_id", player.ID))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "Save", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if player.ID == 0 {
		err = tx.QueryRowContext(ctx, queryInsert, playerArgs(player)...).Scan(&player.ID)
	} else {
		err = updatePlayer(ctx, tx, player)
	}
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("rollback failed", "method", "Save", "error", rbErr)
			err = fmt.Errorf("rollback failed: %v; original error: %w", rbErr, err)
		}
		err = translateError(err)
		slog.Error("failed to save player", "method", "Save", "player_id", player.ID, "error", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "Save", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("player saved", "method", "Save", "player_id", player.ID, "name", player.Name)
	return nil
}

func updatePlayer(ctx context.Context, tx *sql.Tx, player *models.Player) error {
	args := append(playerArgs(player), player.ID)
	res, err := tx.ExecContext(ctx, queryUpdate, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return pkgerrors.ErrPlayerNotFound
	}
	return nil
}

func (r *PostgresPlayerRepository) Delete(ctx context.Context, id int64) (err error) {
	tracer := otel.Tracer("player-repository")
	ctx, span := tracer.Start(ctx, "DeletePlayer")
	span.SetAttributes(attribute.Int64("player_id", id))
	defer span.End()
	start := time.Now()
	defer func() { observability.RecordRepositoryCall(span, "DeletePlayer", start, err) }()

	res, err := r.db.ExecContext(ctx, queryDelete, id)
	if err != nil {
		slog.Error("failed to delete player", "method", "Delete", "player_id", id, "error", err)
		return fmt.Errorf("failed to delete player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if n == 0 {
		err = pkgerrors.ErrPlayerNotFound
		return err
	}

	slog.Info("player deleted", "method", "Delete", "player_id", id)
	return nil
}

func playerArgs(p *models.Player) []any {
	return []any{
		p.Name,
		p.Title,
		string(p.Race),
		string(p.Profession),
		p.Birthday,
		p.Banned,
		p.Experience,
		p.Level,
		p.UntilNextLevel,
	}
}

// translateError maps constraint violations reported by postgres onto the
// service error kinds.
func translateError(err error) error {
	if stderrors.Is(err, pkgerrors.ErrPlayerNotFound) {
		return err
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == pqCheckViolation {
		return fmt.Errorf("%w: %s", pkgerrors.ErrBadRequest, pqErr.Message)
	}
	return fmt.Errorf("failed to save player: %w", err)
}
