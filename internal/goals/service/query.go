package service

import (
	"context"
	"fmt"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
	"github.com/lifetribe/goals-backend/internal/goals/projection"
)

// LoadTree reloads the full persisted tree for one vision: metrics with
// their series and action items with week numbers derived from the
// stored due date.
func (s *GoalService) LoadTree(ctx context.Context, visionID string) (*domain.VisionTree, error) {
	vision, err := s.goals.GetByID(ctx, visionID)
	if err != nil {
		return nil, err
	}

	metrics, err := s.metrics.ListByVision(ctx, visionID)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	actions, err := s.actions.ListByVision(ctx, visionID)
	if err != nil {
		return nil, fmt.Errorf("load actions: %w", err)
	}

	tree := &domain.VisionTree{
		Vision: *vision,
		Okrs:   []domain.Metric{},
		Kpis:   []domain.Metric{},
	}
	for _, m := range metrics {
		if m.Kind == domain.KindPrimary {
			tree.Okrs = append(tree.Okrs, m)
		} else {
			tree.Kpis = append(tree.Kpis, m)
		}
	}

	tree.Actions.Items = make([]domain.ActionItem, 0, len(actions))
	for _, a := range actions {
		a.Week = projection.WeekNumber(a.DueDate)
		a.Year = a.DueDate.Year()
		tree.Actions.Items = append(tree.Actions.Items, a)
	}
	return tree, nil
}

// ListTrees returns all of the owner's vision trees, loaded one by one.
func (s *GoalService) ListTrees(ctx context.Context, ownerID string) ([]domain.VisionTree, error) {
	visions, err := s.goals.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list visions: %w", err)
	}

	out := make([]domain.VisionTree, 0, len(visions))
	for _, v := range visions {
		tree, err := s.LoadTree(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *tree)
	}
	return out, nil
}

// DeleteVision cascades a delete through the vision's action items and
// metrics. Only the owner may delete.
func (s *GoalService) DeleteVision(ctx context.Context, owner Owner, visionID string) error {
	if visionID == "" {
		return domain.ErrInvalid
	}

	vision, err := s.goals.GetByID(ctx, visionID)
	if err != nil {
		return err
	}
	if vision.OwnerID != owner.ID {
		return domain.ErrForbidden
	}

	return s.goals.SoftDeleteCascade(ctx, visionID)
}

// UpdateMonth applies a single-cell edit to one projection point. This is
// the second write path of the series (the first being full-tree merges)
// and touches only the addressed period.
func (s *GoalService) UpdateMonth(ctx context.Context, owner Owner, metricID, month string, year int, patch domain.MonthPatch) error {
	if metricID == "" || month == "" {
		return domain.ErrInvalid
	}
	return s.metrics.UpdateMonth(ctx, owner.ID, metricID, month, year, patch)
}
