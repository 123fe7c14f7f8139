package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

// ActionRepository provides persistence operations for weekly action items.
type ActionRepository struct {
	db *sql.DB
}

// NewActionRepository creates a new action repository.
func NewActionRepository(db *sql.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// Insert stores a new action item linked to a metric.
func (r *ActionRepository) Insert(ctx context.Context, a *domain.ActionItem) error {
	if a.ID == "" || a.MetricID == "" {
		return fmt.Errorf("action id and metric id required")
	}

	const q = `
INSERT INTO goal_actions (id, metric_id, title, due_date, done, sort_order)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.db.ExecContext(ctx, q, a.ID, a.MetricID, a.Title, a.DueDate, a.Done, a.SortOrder)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// Update mutates an existing action item.
func (r *ActionRepository) Update(ctx context.Context, a *domain.ActionItem) error {
	const q = `
UPDATE goal_actions
SET title = $2, due_date = $3, done = $4, sort_order = $5, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL;
`
	res, err := r.db.ExecContext(ctx, q, a.ID, a.Title, a.DueDate, a.Done, a.SortOrder)
	if err != nil {
		return fmt.Errorf("update action: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByVision returns all action items linked through the vision's
// metrics, in display order.
func (r *ActionRepository) ListByVision(ctx context.Context, visionID string) ([]domain.ActionItem, error) {
	const q = `
SELECT a.id, a.metric_id, a.title, a.due_date, a.done, a.sort_order
FROM goal_actions a
JOIN goal_metrics m ON m.id = a.metric_id
WHERE m.goal_id = $1 AND a.deleted_at IS NULL AND m.deleted_at IS NULL
ORDER BY a.due_date ASC, a.sort_order ASC;
`
	rows, err := r.db.QueryContext(ctx, q, visionID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ActionItem, 0, 8)
	for rows.Next() {
		var a domain.ActionItem
		// due_date is NOT NULL in the schema
		if err := rows.Scan(&a.ID, &a.MetricID, &a.Title, &a.DueDate, &a.Done, &a.SortOrder); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
