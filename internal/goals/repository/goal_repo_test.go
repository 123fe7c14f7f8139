package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

func setupGoalRepo(t *testing.T) (*GoalRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewGoalRepository(db), mock, db
}

func TestGoalRepository_Insert(t *testing.T) {
	repo, mock, _ := setupGoalRepo(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO goals`).
		WithArgs("gol_0123456789abcdef0123456789abcdef", "owner-1", "Run a marathon", "health", "active", "private", 0).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	v := &domain.Vision{
		ID:         "gol_0123456789abcdef0123456789abcdef",
		OwnerID:    "owner-1",
		Title:      "Run a marathon",
		Category:   "health",
		Status:     domain.StatusActive,
		Visibility: domain.VisibilityPrivate,
	}
	require.NoError(t, repo.Insert(context.Background(), v))
	assert.Equal(t, now, v.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_Insert_RequiresIDAndOwner(t *testing.T) {
	repo, _, _ := setupGoalRepo(t)

	err := repo.Insert(context.Background(), &domain.Vision{OwnerID: "owner-1"})
	require.Error(t, err)

	err = repo.Insert(context.Background(), &domain.Vision{ID: "gol_0123456789abcdef0123456789abcdef"})
	require.Error(t, err)
}

func TestGoalRepository_Update_MissingRowIsNotFound(t *testing.T) {
	repo, mock, _ := setupGoalRepo(t)

	mock.ExpectQuery(`UPDATE goals`).
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), &domain.Vision{ID: "gol_0123456789abcdef0123456789abcdef"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_SoftDeleteCascade(t *testing.T) {
	repo, mock, _ := setupGoalRepo(t)
	visionID := "gol_0123456789abcdef0123456789abcdef"

	t.Run("marks actions, metrics and goal in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE goal_actions`).WithArgs(visionID).WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`UPDATE goal_metrics`).WithArgs(visionID).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`UPDATE goals`).WithArgs(visionID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SoftDeleteCascade(context.Background(), visionID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already deleted goal is not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE goal_actions`).WithArgs(visionID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE goal_metrics`).WithArgs(visionID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE goals`).WithArgs(visionID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SoftDeleteCascade(context.Background(), visionID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGoalRepository_PurgeDeleted(t *testing.T) {
	repo, mock, _ := setupGoalRepo(t)
	cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM goal_actions`).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM goal_metric_shares`).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM goal_metrics`).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM goals`).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	purged, err := repo.PurgeDeleted(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
