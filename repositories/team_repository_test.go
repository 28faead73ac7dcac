package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/cup-site/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var teamRowColumns = []string{"id", "name", "slug", "captain", "color", "logo_key", "created_at"}

const selectTeams = `SELECT id, name, slug, captain, color, logo_key, created_at FROM teams ORDER BY id ASC`

func TestTeamRepository_GetAll(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty table gives an empty slice", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectTeams)).WillReturnRows(sqlmock.NewRows(teamRowColumns))

		teams, err := NewPostgresTeamRepository(db).GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, teams)
		assert.Empty(t, teams)
	})

	t.Run("rows in order with nullable columns", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectTeams)).WillReturnRows(sqlmock.NewRows(teamRowColumns).
			AddRow(1, "Alpha", "alpha", "Ann", "#D0620D", "teams/1/a.png", created).
			AddRow(2, "Beta", "beta", nil, "#000000", nil, created))

		teams, err := NewPostgresTeamRepository(db).GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, teams, 2)
		assert.Equal(t, "Alpha", teams[0].Name)
		require.NotNil(t, teams[0].Captain)
		assert.Equal(t, "Ann", *teams[0].Captain)
		require.NotNil(t, teams[0].LogoKey)
		assert.Equal(t, "teams/1/a.png", *teams[0].LogoKey)
		assert.Equal(t, "beta", teams[1].Slug)
		assert.Nil(t, teams[1].Captain)
		assert.Nil(t, teams[1].LogoKey)
	})

	t.Run("query failure marks the store unavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectTeams)).WillReturnError(errors.New("connection reset by peer"))

		teams, err := NewPostgresTeamRepository(db).GetAll(ctx)
		assert.Nil(t, teams)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})

	t.Run("row iteration failure marks the store unavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectTeams)).WillReturnRows(sqlmock.NewRows(teamRowColumns).
			AddRow(1, "Alpha", "alpha", nil, "#D0620D", nil, created).
			RowError(0, errors.New("server closed the connection")))

		_, err := NewPostgresTeamRepository(db).GetAll(ctx)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})

	t.Run("cancellation is passed through", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectTeams)).WillReturnError(context.Canceled)

		_, err := NewPostgresTeamRepository(db).GetAll(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestTeamRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`FROM teams WHERE id = $1`)

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs(9).WillReturnRows(sqlmock.NewRows(teamRowColumns))

		_, err := NewPostgresTeamRepository(db).GetByID(ctx, 9)
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("driver failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WithArgs(9).WillReturnError(errors.New("too many connections"))

		_, err := NewPostgresTeamRepository(db).GetByID(ctx, 9)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestTeamRepository_UpdateNameConflict(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE teams SET`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "teams_slug_key"})

	err := NewPostgresTeamRepository(db).Update(context.Background(), &models.Team{ID: 1, Name: "Alpha", Slug: "alpha"})
	assert.ErrorIs(t, err, ErrTeamNameConflict)
}

func TestTeamRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM teams WHERE id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostgresTeamRepository(db).Delete(context.Background(), 4)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
