package service

import (
	"log"
	"strings"
	"time"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
	"github.com/lifetribe/goals-backend/internal/goals/identity"
	"github.com/lifetribe/goals-backend/internal/goals/projection"
)

// Simulate normalizes a submitted tree exactly as a merge would — same
// identity resolution, same projector — but never touches storage. It
// backs the unauthenticated POST path so the contract can be exercised
// without an account.
func Simulate(submitted *domain.VisionTree) (*domain.VisionTree, error) {
	if submitted == nil || strings.TrimSpace(submitted.Title) == "" {
		return nil, domain.ErrInvalid
	}

	tree := *submitted
	if !identity.IsPersisted(identity.KindVision, tree.ID) {
		tree.ID = simulatedID(identity.KindVision)
	}
	if tree.Status == "" {
		tree.Status = domain.StatusActive
	}
	if tree.Visibility == "" {
		tree.Visibility = domain.VisibilityPrivate
	}

	normalize := func(metrics []domain.Metric, kind string) []domain.Metric {
		out := make([]domain.Metric, len(metrics))
		for i, m := range metrics {
			m.Kind = kind
			m.SortOrder = i
			if !identity.IsPersisted(identity.KindMetric, m.ID) {
				m.ID = simulatedID(identity.KindMetric)
			}
			if len(m.Series) == 0 {
				m.Series = projection.Project(
					m.StartValue, m.TargetValue,
					m.StartYear, m.StartMonth, m.DeadlineYear, m.DeadlineMonth,
				)
			}
			out[i] = m
		}
		return out
	}
	tree.Okrs = normalize(submitted.Okrs, domain.KindPrimary)
	tree.Kpis = normalize(submitted.Kpis, domain.KindSupporting)

	items := make([]domain.ActionItem, len(submitted.Actions.Items))
	for i, a := range submitted.Actions.Items {
		if !identity.IsPersisted(identity.KindAction, a.ID) {
			a.ID = simulatedID(identity.KindAction)
		}
		if a.Week < 1 {
			a.Week = 1
		}
		if a.Year == 0 {
			a.Year = time.Now().UTC().Year()
		}
		a.SortOrder = i
		a.DueDate = projection.WeekDate(a.Week, a.Year)
		a.Week = projection.WeekNumber(a.DueDate)
		items[i] = a
	}
	tree.Actions.Items = items

	return &tree, nil
}

func simulatedID(kind identity.Kind) string {
	id, err := identity.NewID(kind)
	if err != nil {
		// crypto/rand failing is effectively fatal elsewhere; a fixed
		// marker keeps the simulated echo usable
		log.Printf("simulate: id generation failed: %v", err)
		return string(kind) + "_00000000000000000000000000000000"
	}
	return id
}
