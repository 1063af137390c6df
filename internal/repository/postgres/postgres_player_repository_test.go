package repository_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/honeynil/player-service/internal/models"
	repository "github.com/honeynil/player-service/internal/repository/postgres"
	pkgerrors "github.com/honeynil/player-service/pkg/errors"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var playerColumns = []string{"id", "name", "title", "race", "profession", "birthday", "banned", "experience", "level", "until_next_level"}

func testPlayer() *models.Player {
	return &models.Player{
		Name:           "Ниус",
		Title:          "Приходящий Без Шума",
		Race:           models.RaceHobbit,
		Profession:     models.ProfessionRogue,
		Birthday:       time.Date(2010, time.October, 12, 0, 0, 0, 0, time.UTC),
		Experience:     58347,
		Level:          33,
		UntilNextLevel: 1153,
	}
}

func addPlayerRow(rows *sqlmock.Rows, id int64, p *models.Player) *sqlmock.Rows {
	return rows.AddRow(id, p.Name, p.Title, string(p.Race), string(p.Profession), p.Birthday, p.Banned, p.Experience, p.Level, p.UntilNextLevel)
}

func TestPostgresPlayerRepository_FindAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresPlayerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		p := testPlayer()
		rows := sqlmock.NewRows(playerColumns)
		addPlayerRow(rows, 1, p)
		addPlayerRow(rows, 2, p)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM players ORDER BY id`)).WillReturnRows(rows)

		players, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, players, 2)
		assert.Equal(t, int64(1), players[0].ID)
		assert.Equal(t, int64(2), players[1].ID)
		assert.Equal(t, p.Name, players[0].Name)
		assert.Equal(t, models.RaceHobbit, players[0].Race)
		assert.True(t, p.Birthday.Equal(players[0].Birthday))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM players ORDER BY id`)).WillReturnRows(sqlmock.NewRows(playerColumns))

		players, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, players)
		assert.Empty(t, players)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM players ORDER BY id`)).WillReturnError(fmt.Errorf("database error"))

		players, err := repo.FindAll(ctx)
		assert.Nil(t, players)
		assert.ErrorContains(t, err, "database error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPlayerRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresPlayerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		p := testPlayer()
		mock.ExpectQuery(regexp.QuoteMeta(`FROM players WHERE id = $1`)).
			WithArgs(int64(7)).
			WillReturnRows(addPlayerRow(sqlmock.NewRows(playerColumns), 7, p))

		got, err := repo.FindByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, p.Title, got.Title)
		assert.Equal(t, p.Experience, got.Experience)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PlayerNotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM players WHERE id = $1`)).
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows(playerColumns))

		got, err := repo.FindByID(ctx, 8)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, pkgerrors.ErrPlayerNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM players WHERE id = $1`)).
			WithArgs(int64(9)).
			WillReturnError(fmt.Errorf("database error"))

		got, err := repo.FindByID(ctx, 9)
		assert.Nil(t, got)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, pkgerrors.ErrPlayerNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPlayerRepository_ExistsByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresPlayerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlayerRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresPlayerRepository(db)
	ctx := context.Background()

	t.Run("NilPlayer", func(t *testing.T) {
		err := repo.Save(ctx, nil)
		assert.ErrorIs(t, err, pkgerrors.ErrNilPlayer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertAssignsID", func(t *testing.T) {
		p := testPlayer()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO players`)).
			WithArgs(p.Name, p.Title, "HOBBIT", "ROGUE", sqlmock.AnyArg(), false, p.Experience, p.Level, p.UntilNextLevel).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectCommit()

		err := repo.Save(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(42), p.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateExisting", func(t *testing.T) {
		p := testPlayer()
		p.ID = 42
		p.Banned = true
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE players SET`)).
			WithArgs(p.Name, p.Title, "HOBBIT", "ROGUE", sqlmock.AnyArg(), true, p.Experience, p.Level, p.UntilNextLevel, int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Save(ctx, p)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		p := testPlayer()
		p.ID = 43
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE players SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Save(ctx, p)
		assert.ErrorIs(t, err, pkgerrors.ErrPlayerNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CheckViolation", func(t *testing.T) {
		p := testPlayer()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO players`)).
			WillReturnError(&pq.Error{Code: "23514", Message: "violates check constraint"})
		mock.ExpectRollback()

		err := repo.Save(ctx, p)
		assert.ErrorIs(t, err, pkgerrors.ErrBadRequest)
		assert.Equal(t, int64(0), p.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackError", func(t *testing.T) {
		p := testPlayer()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO players`)).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback().WillReturnError(fmt.Errorf("rollback error"))

		err := repo.Save(ctx, p)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rollback failed")
		assert.Contains(t, err.Error(), "database error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CommitError", func(t *testing.T) {
		p := testPlayer()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO players`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(44)))
		mock.ExpectCommit().WillReturnError(fmt.Errorf("commit error"))

		err := repo.Save(ctx, p)
		assert.ErrorContains(t, err, "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPlayerRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresPlayerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM players WHERE id = $1`)).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PlayerNotFound", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM players WHERE id = $1`)).
			WithArgs(int64(6)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 6), pkgerrors.ErrPlayerNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPlayerRepository_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresPlayerRepository(db)

	mock.ExpectExec(`(?s)CREATE TABLE IF NOT EXISTS players.*` +
		regexp.QuoteMeta(`CHECK (char_length(btrim(name)) > 0)`) + `.*` +
		regexp.QuoteMeta(`CHECK (birthday > '2000-01-01T00:00:00Z' AND birthday < '3000-01-01T00:00:00Z')`) + `.*` +
		regexp.QuoteMeta(`CHECK (experience BETWEEN 0 AND 10000000)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
