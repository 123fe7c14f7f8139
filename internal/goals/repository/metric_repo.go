package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

// MetricRepository provides persistence operations for goal metrics.
// The monthly series is stored as a JSONB document on the metric row.
type MetricRepository struct {
	db *sql.DB
}

// NewMetricRepository creates a new metric repository.
func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// Insert stores a new metric with its series and tribe shares.
func (r *MetricRepository) Insert(ctx context.Context, m *domain.Metric) error {
	if m.ID == "" || m.VisionID == "" {
		return fmt.Errorf("metric id and vision id required")
	}

	seriesJSON, err := json.Marshal(m.Series)
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}

	const q = `
INSERT INTO goal_metrics (
	id, goal_id, kind, label, start_value, target_value,
	start_year, start_month, deadline_year, deadline_month, series, sort_order
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err = r.db.ExecContext(ctx, q,
		m.ID, m.VisionID, m.Kind, m.Label, m.StartValue, m.TargetValue,
		m.StartYear, m.StartMonth, m.DeadlineYear, m.DeadlineMonth, seriesJSON, m.SortOrder,
	)
	if err != nil {
		// foreign key violation: the parent vision is gone
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert metric: %w", err)
	}

	return r.ReplaceShares(ctx, m.ID, m.TribeIDs)
}

// Update mutates the scalar fields and series of an existing metric.
func (r *MetricRepository) Update(ctx context.Context, m *domain.Metric) error {
	seriesJSON, err := json.Marshal(m.Series)
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}

	// Scoped to the parent goal so a metric id can never be updated
	// through a different vision's merge.
	const q = `
UPDATE goal_metrics
SET kind = $2, label = $3, start_value = $4, target_value = $5,
    start_year = $6, start_month = $7, deadline_year = $8, deadline_month = $9,
    series = $10, sort_order = $11, updated_at = now()
WHERE id = $1 AND goal_id = $12 AND deleted_at IS NULL;
`
	res, err := r.db.ExecContext(ctx, q,
		m.ID, m.Kind, m.Label, m.StartValue, m.TargetValue,
		m.StartYear, m.StartMonth, m.DeadlineYear, m.DeadlineMonth, seriesJSON, m.SortOrder,
		m.VisionID,
	)
	if err != nil {
		return fmt.Errorf("update metric: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return r.ReplaceShares(ctx, m.ID, m.TribeIDs)
}

// ReplaceShares applies replace-set semantics to the tribe-share relation:
// the submitted list replaces the stored set.
func (r *MetricRepository) ReplaceShares(ctx context.Context, metricID string, tribeIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace shares: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goal_metric_shares WHERE metric_id = $1;`, metricID); err != nil {
		return fmt.Errorf("clear shares: %w", err)
	}

	for _, tribeID := range tribeIDs {
		const q = `INSERT INTO goal_metric_shares (metric_id, tribe_id) VALUES ($1, $2);`
		if _, err := tx.ExecContext(ctx, q, metricID, tribeID); err != nil {
			return fmt.Errorf("insert share: %w", err)
		}
	}

	return tx.Commit()
}

// ListByVision returns the vision's metrics with series and shares
// materialized, primary before supporting, each group in display order.
func (r *MetricRepository) ListByVision(ctx context.Context, visionID string) ([]domain.Metric, error) {
	const q = `
SELECT id, goal_id, kind, label, start_value, target_value,
       start_year, start_month, deadline_year, deadline_month, series, sort_order
FROM goal_metrics
WHERE goal_id = $1 AND deleted_at IS NULL
ORDER BY CASE kind WHEN 'primary' THEN 0 ELSE 1 END, sort_order ASC, created_at ASC;
`
	rows, err := r.db.QueryContext(ctx, q, visionID)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Metric, 0, 4)
	for rows.Next() {
		var m domain.Metric
		var seriesJSON []byte
		if err := rows.Scan(
			&m.ID, &m.VisionID, &m.Kind, &m.Label, &m.StartValue, &m.TargetValue,
			&m.StartYear, &m.StartMonth, &m.DeadlineYear, &m.DeadlineMonth, &seriesJSON, &m.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}

		if len(seriesJSON) > 0 {
			if err := json.Unmarshal(seriesJSON, &m.Series); err != nil {
				return nil, fmt.Errorf("unmarshal series for %s: %w", m.ID, err)
			}
		}
		m.TribeIDs = []string{}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachShares(ctx, visionID, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MetricRepository) attachShares(ctx context.Context, visionID string, metrics []domain.Metric) error {
	if len(metrics) == 0 {
		return nil
	}

	const q = `
SELECT s.metric_id, s.tribe_id
FROM goal_metric_shares s
JOIN goal_metrics m ON m.id = s.metric_id
WHERE m.goal_id = $1 AND m.deleted_at IS NULL
ORDER BY s.tribe_id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, visionID)
	if err != nil {
		return fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	byMetric := make(map[string][]string)
	for rows.Next() {
		var metricID, tribeID string
		if err := rows.Scan(&metricID, &tribeID); err != nil {
			return err
		}
		byMetric[metricID] = append(byMetric[metricID], tribeID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range metrics {
		if shares, ok := byMetric[metrics[i].ID]; ok {
			metrics[i].TribeIDs = shares
		}
	}
	return nil
}

// CountSupportingByOwner counts supporting metrics across all of the
// owner's live visions, the number the KPI ceiling applies to.
func (r *MetricRepository) CountSupportingByOwner(ctx context.Context, ownerID string) (int, error) {
	const q = `
SELECT COUNT(*)
FROM goal_metrics m
JOIN goals g ON g.id = m.goal_id
WHERE g.user_id = $1::uuid AND m.kind = 'supporting'
  AND m.deleted_at IS NULL AND g.deleted_at IS NULL;
`
	var n int
	if err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count supporting metrics: %w", err)
	}
	return n, nil
}

// UpdateMonth applies a single-cell edit to one projection point of a
// metric owned by the given user, leaving the rest of the series intact.
func (r *MetricRepository) UpdateMonth(ctx context.Context, ownerID, metricID, month string, year int, patch domain.MonthPatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin month update: %w", err)
	}
	defer tx.Rollback()

	const sel = `
SELECT g.user_id::text, m.series
FROM goal_metrics m
JOIN goals g ON g.id = m.goal_id
WHERE m.id = $1 AND m.deleted_at IS NULL AND g.deleted_at IS NULL
FOR UPDATE OF m;
`
	var rowOwner string
	var seriesJSON []byte
	err = tx.QueryRowContext(ctx, sel, metricID).Scan(&rowOwner, &seriesJSON)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	if rowOwner != ownerID {
		return domain.ErrForbidden
	}

	var series []domain.MonthlyProjectionPoint
	if err := json.Unmarshal(seriesJSON, &series); err != nil {
		return fmt.Errorf("unmarshal series: %w", err)
	}

	found := false
	for i := range series {
		if series[i].Month != month || series[i].Year != year {
			continue
		}
		if patch.Target != nil {
			series[i].Target = patch.Target
		}
		if patch.Actual != nil {
			series[i].Actual = patch.Actual
		}
		if patch.Note != nil {
			series[i].Note = *patch.Note
		}
		found = true
		break
	}
	if !found {
		return domain.ErrInvalid
	}

	updated, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}

	const upd = `UPDATE goal_metrics SET series = $2, updated_at = now() WHERE id = $1;`
	if _, err := tx.ExecContext(ctx, upd, metricID, updated); err != nil {
		return fmt.Errorf("write series: %w", err)
	}

	return tx.Commit()
}
