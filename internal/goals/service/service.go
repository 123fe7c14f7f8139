// Package service implements the goal reconciliation engine: merging
// client-submitted goal trees into persisted rows, regenerating monthly
// projections, and emitting progression events for the reward
// collaborator.
package service

import (
	"context"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

// Owner identifies the caller of an engine operation.
type Owner struct {
	ID   string
	Tier string
}

// Plan tiers. Anything other than free is treated as unlimited.
const (
	TierFree = "free"
	TierPro  = "pro"
)

// GoalStore is the persistence surface for vision rows.
type GoalStore interface {
	Insert(ctx context.Context, v *domain.Vision) error
	Update(ctx context.Context, v *domain.Vision) error
	GetByID(ctx context.Context, id string) (*domain.Vision, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Vision, error)
	CountLiveByOwner(ctx context.Context, ownerID string) (int, error)
	SoftDeleteCascade(ctx context.Context, id string) error
}

// MetricStore is the persistence surface for metric rows.
type MetricStore interface {
	Insert(ctx context.Context, m *domain.Metric) error
	Update(ctx context.Context, m *domain.Metric) error
	ListByVision(ctx context.Context, visionID string) ([]domain.Metric, error)
	CountSupportingByOwner(ctx context.Context, ownerID string) (int, error)
	UpdateMonth(ctx context.Context, ownerID, metricID, month string, year int, patch domain.MonthPatch) error
}

// ActionStore is the persistence surface for action items.
type ActionStore interface {
	Insert(ctx context.Context, a *domain.ActionItem) error
	Update(ctx context.Context, a *domain.ActionItem) error
	ListByVision(ctx context.Context, visionID string) ([]domain.ActionItem, error)
}

// RewardSink receives progression events. A nil sink disables rewards.
type RewardSink interface {
	Publish(ctx context.Context, userID string, ev domain.ProgressionEvent) error
}

// GoalService orchestrates merges, reads and deletes of goal trees.
type GoalService struct {
	goals   GoalStore
	metrics MetricStore
	actions ActionStore
	rewards RewardSink
	plans   PlanPolicy
}

// NewGoalService creates a new goal service.
func NewGoalService(goals GoalStore, metrics MetricStore, actions ActionStore, rewards RewardSink, plans PlanPolicy) *GoalService {
	return &GoalService{
		goals:   goals,
		metrics: metrics,
		actions: actions,
		rewards: rewards,
		plans:   plans,
	}
}
