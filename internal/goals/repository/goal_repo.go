package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

// GoalRepository provides persistence operations for visions (goal rows).
type GoalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new goal repository.
func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Insert stores a new vision row. The caller allocates the id.
func (r *GoalRepository) Insert(ctx context.Context, v *domain.Vision) error {
	if v.ID == "" {
		return fmt.Errorf("vision id required")
	}
	if v.OwnerID == "" {
		return fmt.Errorf("owner id required")
	}

	const q = `
INSERT INTO goals (id, user_id, title, category, status, visibility, sort_order)
VALUES ($1, $2::uuid, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at;
`
	return r.db.QueryRowContext(ctx, q,
		v.ID, v.OwnerID, v.Title, v.Category, v.Status, v.Visibility, v.SortOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

// Update mutates the scalar fields of an existing vision.
func (r *GoalRepository) Update(ctx context.Context, v *domain.Vision) error {
	const q = `
UPDATE goals
SET title = $2, category = $3, status = $4, visibility = $5, sort_order = $6, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		v.ID, v.Title, v.Category, v.Status, v.Visibility, v.SortOrder,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	return err
}

// GetByID loads one vision, including its owner reference.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*domain.Vision, error) {
	const q = `
SELECT id, user_id::text, title, category, status, visibility, sort_order, created_at, updated_at
FROM goals
WHERE id = $1 AND deleted_at IS NULL;
`
	var v domain.Vision
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Category, &v.Status, &v.Visibility,
		&v.SortOrder, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByOwner returns the owner's visions in display order.
func (r *GoalRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vision, error) {
	const q = `
SELECT id, user_id::text, title, category, status, visibility, sort_order, created_at, updated_at
FROM goals
WHERE user_id = $1::uuid AND deleted_at IS NULL
ORDER BY sort_order ASC, created_at ASC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Vision, 0, 8)
	for rows.Next() {
		var v domain.Vision
		if err := rows.Scan(
			&v.ID, &v.OwnerID, &v.Title, &v.Category, &v.Status, &v.Visibility,
			&v.SortOrder, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CountLiveByOwner counts the owner's non-deleted visions, the number the
// plan ceiling applies to.
func (r *GoalRepository) CountLiveByOwner(ctx context.Context, ownerID string) (int, error) {
	const q = `SELECT COUNT(*) FROM goals WHERE user_id = $1::uuid AND deleted_at IS NULL;`

	var n int
	if err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count visions: %w", err)
	}
	return n, nil
}

// SoftDeleteCascade marks a vision and everything under it as deleted in
// one transaction: action items first, then metrics, then the goal row.
func (r *GoalRepository) SoftDeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback()

	const delActions = `
UPDATE goal_actions
SET deleted_at = now()
WHERE deleted_at IS NULL
  AND metric_id IN (SELECT id FROM goal_metrics WHERE goal_id = $1);
`
	if _, err := tx.ExecContext(ctx, delActions, id); err != nil {
		return fmt.Errorf("cascade delete actions: %w", err)
	}

	const delMetrics = `
UPDATE goal_metrics
SET deleted_at = now()
WHERE goal_id = $1 AND deleted_at IS NULL;
`
	if _, err := tx.ExecContext(ctx, delMetrics, id); err != nil {
		return fmt.Errorf("cascade delete metrics: %w", err)
	}

	const delGoal = `
UPDATE goals
SET deleted_at = now(), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL;
`
	res, err := tx.ExecContext(ctx, delGoal, id)
	if err != nil {
		return fmt.Errorf("cascade delete goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

// PurgeDeleted hard-deletes visions soft-deleted before the cutoff,
// together with their metrics, shares and action items. Returns the
// number of purged visions.
func (r *GoalRepository) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback()

	const purgeActions = `
DELETE FROM goal_actions
WHERE metric_id IN (
  SELECT m.id FROM goal_metrics m
  JOIN goals g ON g.id = m.goal_id
  WHERE g.deleted_at IS NOT NULL AND g.deleted_at < $1
);
`
	if _, err := tx.ExecContext(ctx, purgeActions, before); err != nil {
		return 0, fmt.Errorf("purge actions: %w", err)
	}

	const purgeShares = `
DELETE FROM goal_metric_shares
WHERE metric_id IN (
  SELECT m.id FROM goal_metrics m
  JOIN goals g ON g.id = m.goal_id
  WHERE g.deleted_at IS NOT NULL AND g.deleted_at < $1
);
`
	if _, err := tx.ExecContext(ctx, purgeShares, before); err != nil {
		return 0, fmt.Errorf("purge shares: %w", err)
	}

	const purgeMetrics = `
DELETE FROM goal_metrics
WHERE goal_id IN (SELECT id FROM goals WHERE deleted_at IS NOT NULL AND deleted_at < $1);
`
	if _, err := tx.ExecContext(ctx, purgeMetrics, before); err != nil {
		return 0, fmt.Errorf("purge metrics: %w", err)
	}

	const purgeGoals = `DELETE FROM goals WHERE deleted_at IS NOT NULL AND deleted_at < $1;`
	res, err := tx.ExecContext(ctx, purgeGoals, before)
	if err != nil {
		return 0, fmt.Errorf("purge goals: %w", err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return purged, nil
}
