package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

func setupMetricRepo(t *testing.T) (*MetricRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewMetricRepository(db), mock, db
}

func testSeries(t *testing.T) ([]domain.MonthlyProjectionPoint, []byte) {
	t.Helper()
	target := 42.0
	series := []domain.MonthlyProjectionPoint{
		{Month: "Jan", Year: 2026, Target: &target},
		{Month: "Feb", Year: 2026},
	}
	raw, err := json.Marshal(series)
	require.NoError(t, err)
	return series, raw
}

func TestMetricRepository_Insert_ReplacesShares(t *testing.T) {
	repo, mock, _ := setupMetricRepo(t)
	series, _ := testSeries(t)

	m := &domain.Metric{
		ID:       "met_0123456789abcdef0123456789abcdef",
		VisionID: "gol_0123456789abcdef0123456789abcdef",
		Kind:     domain.KindSupporting,
		Label:    "Weekly mileage",
		Series:   series,
		TribeIDs: []string{"tribe-alpha", "tribe-beta"},
	}

	mock.ExpectExec(`INSERT INTO goal_metrics`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM goal_metric_shares`).
		WithArgs(m.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO goal_metric_shares`).
		WithArgs(m.ID, "tribe-alpha").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO goal_metric_shares`).
		WithArgs(m.ID, "tribe-beta").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Insert(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricRepository_Update_MissingRowIsNotFound(t *testing.T) {
	repo, mock, _ := setupMetricRepo(t)

	mock.ExpectExec(`UPDATE goal_metrics`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Metric{ID: "met_0123456789abcdef0123456789abcdef"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricRepository_Update_ScopedToParentVision(t *testing.T) {
	repo, mock, _ := setupMetricRepo(t)

	m := &domain.Metric{
		ID:       "met_0123456789abcdef0123456789abcdef",
		VisionID: "gol_0123456789abcdef0123456789abcdef",
		Kind:     domain.KindPrimary,
		Label:    "Weekly mileage",
	}

	// the goal id rides along as the last parameter; a metric hanging off
	// a different vision matches zero rows
	mock.ExpectExec(`UPDATE goal_metrics`).
		WithArgs(
			m.ID, m.Kind, m.Label, m.StartValue, m.TargetValue,
			m.StartYear, m.StartMonth, m.DeadlineYear, m.DeadlineMonth,
			sqlmock.AnyArg(), m.SortOrder, m.VisionID,
		).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), m)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricRepository_UpdateMonth(t *testing.T) {
	repo, mock, _ := setupMetricRepo(t)
	metricID := "met_0123456789abcdef0123456789abcdef"
	_, raw := testSeries(t)

	t.Run("patches one cell and rewrites the series", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT g.user_id`).
			WithArgs(metricID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "series"}).AddRow("owner-1", raw))
		mock.ExpectExec(`UPDATE goal_metrics SET series`).
			WithArgs(metricID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		actual := 40.0
		err := repo.UpdateMonth(context.Background(), "owner-1", metricID, "Feb", 2026, domain.MonthPatch{Actual: &actual})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong owner is forbidden", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT g.user_id`).
			WithArgs(metricID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "series"}).AddRow("somebody-else", raw))
		mock.ExpectRollback()

		actual := 40.0
		err := repo.UpdateMonth(context.Background(), "owner-1", metricID, "Feb", 2026, domain.MonthPatch{Actual: &actual})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown month label is invalid", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT g.user_id`).
			WithArgs(metricID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "series"}).AddRow("owner-1", raw))
		mock.ExpectRollback()

		actual := 40.0
		err := repo.UpdateMonth(context.Background(), "owner-1", metricID, "Sep", 2031, domain.MonthPatch{Actual: &actual})
		assert.ErrorIs(t, err, domain.ErrInvalid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing metric is not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT g.user_id`).
			WithArgs(metricID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		actual := 40.0
		err := repo.UpdateMonth(context.Background(), "owner-1", metricID, "Feb", 2026, domain.MonthPatch{Actual: &actual})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMetricRepository_CountSupportingByOwner(t *testing.T) {
	repo, mock, _ := setupMetricRepo(t)

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountSupportingByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
