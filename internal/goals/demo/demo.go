// Package demo serves a fixed goal tree to unauthenticated callers so
// the API contract can be exercised without an account. Nothing here
// touches storage.
package demo

import (
	"time"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
	"github.com/lifetribe/goals-backend/internal/goals/projection"
)

// Trees returns the demo vision trees. The projection series comes from
// the same projector the merge path uses.
func Trees() []domain.VisionTree {
	year := time.Now().UTC().Year()

	tree := domain.VisionTree{
		Vision: domain.Vision{
			ID:         "gol_00000000000000000000000000000001",
			Title:      "Launch my side project",
			Category:   "career",
			Status:     domain.StatusActive,
			Visibility: domain.VisibilityPrivate,
		},
		Okrs: []domain.Metric{{
			ID:            "met_00000000000000000000000000000001",
			Kind:          domain.KindPrimary,
			Label:         "Monthly active users",
			StartValue:    0,
			TargetValue:   1000,
			StartYear:     year,
			StartMonth:    0,
			DeadlineYear:  year,
			DeadlineMonth: 11,
			TribeIDs:      []string{},
		}},
		Kpis: []domain.Metric{{
			ID:            "met_00000000000000000000000000000002",
			Kind:          domain.KindSupporting,
			Label:         "Hours shipped per week",
			StartValue:    0,
			TargetValue:   10,
			StartYear:     year,
			StartMonth:    0,
			DeadlineYear:  year,
			DeadlineMonth: 5,
			TribeIDs:      []string{},
			SortOrder:     1,
		}},
	}

	for i := range tree.Okrs {
		m := &tree.Okrs[i]
		m.Series = projection.Project(m.StartValue, m.TargetValue, m.StartYear, m.StartMonth, m.DeadlineYear, m.DeadlineMonth)
	}
	for i := range tree.Kpis {
		m := &tree.Kpis[i]
		m.Series = projection.Project(m.StartValue, m.TargetValue, m.StartYear, m.StartMonth, m.DeadlineYear, m.DeadlineMonth)
	}

	items := []domain.ActionItem{
		{ID: "act_00000000000000000000000000000001", Title: "Sketch the landing page", Week: 2, Year: year, Done: true},
		{ID: "act_00000000000000000000000000000002", Title: "Ship the signup flow", Week: 3, Year: year, SortOrder: 1},
	}
	for i := range items {
		items[i].MetricID = tree.Okrs[0].ID
		items[i].DueDate = projection.WeekDate(items[i].Week, items[i].Year)
	}
	tree.Actions.Items = items

	return []domain.VisionTree{tree}
}
