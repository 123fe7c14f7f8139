package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
	"github.com/lifetribe/goals-backend/internal/goals/identity"
	"github.com/lifetribe/goals-backend/internal/goals/projection"
)

// MergeVision merges one submitted goal tree into persisted rows and
// returns the reloaded, normalized tree.
//
// Vision-level failures (ownership mismatch, plan ceiling, vision row
// write) abort the call with nothing written. Metric and action rows are
// upserted one by one; a failing row is logged and skipped so the rest of
// the merge proceeds.
func (s *GoalService) MergeVision(ctx context.Context, owner Owner, submitted *domain.VisionTree) (*domain.VisionTree, error) {
	if submitted == nil || strings.TrimSpace(submitted.Title) == "" {
		return nil, domain.ErrInvalid
	}

	visionIsNew := !identity.IsPersisted(identity.KindVision, submitted.ID)

	// Snapshot of the prior state, taken before any write. It is the
	// only valid baseline for fact preservation, event emission and for
	// deciding which submitted ids actually belong to this vision: a
	// persisted-format id absent from the snapshot is treated as new, so
	// a caller cannot overwrite rows of a tree it does not own by
	// replaying their ids.
	var priorMetrics []domain.Metric
	var priorActions []domain.ActionItem

	if !visionIsNew {
		prior, err := s.goals.GetByID(ctx, submitted.ID)
		if err != nil {
			return nil, err
		}
		if prior.OwnerID != owner.ID {
			return nil, domain.ErrForbidden
		}

		priorMetrics, err = s.metrics.ListByVision(ctx, submitted.ID)
		if err != nil {
			return nil, fmt.Errorf("snapshot metrics: %w", err)
		}
		priorActions, err = s.actions.ListByVision(ctx, submitted.ID)
		if err != nil {
			return nil, fmt.Errorf("snapshot actions: %w", err)
		}
	}

	priorSeries := make(map[string][]domain.MonthlyProjectionPoint, len(priorMetrics))
	for _, m := range priorMetrics {
		priorSeries[m.ID] = m.Series
	}
	priorActionIDs := make(map[string]bool, len(priorActions))
	for _, a := range priorActions {
		priorActionIDs[a.ID] = true
	}

	// Plan ceilings are checked before any write so a rejected
	// submission leaves existing rows untouched.
	if visionIsNew {
		live, err := s.goals.CountLiveByOwner(ctx, owner.ID)
		if err != nil {
			return nil, fmt.Errorf("check vision ceiling: %w", err)
		}
		if !s.plans.AllowNewVision(owner.Tier, live) {
			return nil, domain.ErrPlanLimit
		}
	}
	newKPIs := 0
	for _, m := range submitted.Kpis {
		if _, mine := priorSeries[m.ID]; !mine {
			newKPIs++
		}
	}
	if newKPIs > 0 {
		existing, err := s.metrics.CountSupportingByOwner(ctx, owner.ID)
		if err != nil {
			return nil, fmt.Errorf("check kpi ceiling: %w", err)
		}
		if !s.plans.AllowNewKPIs(owner.Tier, existing, newKPIs) {
			return nil, domain.ErrPlanLimit
		}
	}

	vision := submitted.Vision
	vision.OwnerID = owner.ID
	if vision.Status == "" {
		vision.Status = domain.StatusActive
	}
	if vision.Visibility == "" {
		vision.Visibility = domain.VisibilityPrivate
	}

	if visionIsNew {
		id, err := identity.NewID(identity.KindVision)
		if err != nil {
			return nil, fmt.Errorf("allocate vision id: %w", err)
		}
		vision.ID = id
		if err := s.goals.Insert(ctx, &vision); err != nil {
			return nil, fmt.Errorf("create vision: %w", err)
		}
	} else {
		if err := s.goals.Update(ctx, &vision); err != nil {
			return nil, fmt.Errorf("update vision: %w", err)
		}
	}

	firstMetricID := s.upsertMetrics(ctx, &vision, submitted, priorSeries)
	written := s.upsertActions(ctx, firstMetricID, submitted.Actions.Items, priorActionIDs)

	s.emit(ctx, owner.ID, ComputeEvents(priorActions, written))

	return s.LoadTree(ctx, vision.ID)
}

// upsertMetrics writes the submitted metrics row by row, primary before
// supporting, and returns the id of the vision's first resolved metric
// (the fallback link target for action items).
func (s *GoalService) upsertMetrics(ctx context.Context, vision *domain.Vision, submitted *domain.VisionTree, priorSeries map[string][]domain.MonthlyProjectionPoint) string {
	firstMetricID := ""

	for idx, sub := range submitted.Metrics() {
		m := sub
		m.VisionID = vision.ID
		m.SortOrder = idx
		if idx < len(submitted.Okrs) {
			m.Kind = domain.KindPrimary
		} else {
			m.Kind = domain.KindSupporting
		}

		// A client-supplied series is used as-is; otherwise the curve
		// is recomputed and, on updates, recorded facts re-attached.
		computed := false
		if len(m.Series) == 0 {
			m.Series = projection.Project(
				m.StartValue, m.TargetValue,
				m.StartYear, m.StartMonth, m.DeadlineYear, m.DeadlineMonth,
			)
			computed = true
		}

		// Only ids present in the prior snapshot are updates. Anything
		// else, persisted-looking or not, is a new row of this vision.
		if _, mine := priorSeries[m.ID]; mine {
			if computed {
				m.Series = projection.Reattach(m.Series, priorSeries[m.ID])
			}
			if err := s.metrics.Update(ctx, &m); err != nil {
				log.Printf("merge: skipping metric %s: %v", m.ID, err)
				continue
			}
		} else {
			id, err := identity.NewID(identity.KindMetric)
			if err != nil {
				log.Printf("merge: skipping metric %q: %v", m.Label, err)
				continue
			}
			m.ID = id
			if err := s.metrics.Insert(ctx, &m); err != nil {
				log.Printf("merge: skipping metric %q: %v", m.Label, err)
				continue
			}
		}

		if firstMetricID == "" {
			firstMetricID = m.ID
		}
	}
	return firstMetricID
}

// upsertActions writes the submitted action items row by row and returns
// the items that were actually persisted, with their resolved ids.
func (s *GoalService) upsertActions(ctx context.Context, firstMetricID string, items []domain.ActionItem, priorActionIDs map[string]bool) []domain.ActionItem {
	if len(items) > 0 && firstMetricID == "" {
		log.Printf("merge: no metric to link %d action items to", len(items))
		return nil
	}

	written := make([]domain.ActionItem, 0, len(items))
	for idx, sub := range items {
		a := sub
		a.MetricID = firstMetricID
		a.SortOrder = idx
		if a.Week < 1 {
			a.Week = 1
		}
		if a.Year == 0 {
			a.Year = time.Now().UTC().Year()
		}
		a.DueDate = projection.WeekDate(a.Week, a.Year)

		if priorActionIDs[a.ID] {
			if err := s.actions.Update(ctx, &a); err != nil {
				log.Printf("merge: skipping action %s: %v", a.ID, err)
				continue
			}
		} else {
			id, err := identity.NewID(identity.KindAction)
			if err != nil {
				log.Printf("merge: skipping action %q: %v", a.Title, err)
				continue
			}
			a.ID = id
			if err := s.actions.Insert(ctx, &a); err != nil {
				log.Printf("merge: skipping action %q: %v", a.Title, err)
				continue
			}
		}
		written = append(written, a)
	}
	return written
}

// emit forwards progression events to the reward collaborator, one call
// per event. Reward failures never fail a merge.
func (s *GoalService) emit(ctx context.Context, userID string, events []domain.ProgressionEvent) {
	if s.rewards == nil {
		return
	}
	for _, ev := range events {
		if err := s.rewards.Publish(ctx, userID, ev); err != nil {
			log.Printf("merge: reward publish for %s failed: %v", ev.ActionID, err)
		}
	}
}
