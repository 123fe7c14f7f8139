// Package rewards forwards progression events to the gamification
// backend. Events are stored in Redis with a TTL, scored on a
// leaderboard, and published for live consumers.
package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

const (
	eventKeyPrefix     = "reward:event:"   // reward:event:{event_id}
	userEventsPrefix   = "reward:user:"    // set of event ids per user: reward:user:{user_id}
	eventChannelPrefix = "reward:events:"  // pub/sub channel per user
	leaderboardKey     = "reward:leaderboard"
	eventTTL           = 30 * 24 * time.Hour
)

// Points per event type.
const (
	pointsCreated   = 1
	pointsCompleted = 5
)

// Publisher records progression events in Redis.
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a new reward publisher.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

type storedEvent struct {
	EventID  string    `json:"event_id"`
	UserID   string    `json:"user_id"`
	Type     string    `json:"type"`
	ActionID string    `json:"action_id"`
	Title    string    `json:"title"`
	Points   int       `json:"points"`
	At       time.Time `json:"at"`
}

// Publish stores one progression event, bumps the user's leaderboard
// score and notifies subscribers. One call per event.
func (p *Publisher) Publish(ctx context.Context, userID string, ev domain.ProgressionEvent) error {
	stored := storedEvent{
		EventID:  uuid.New().String(),
		UserID:   userID,
		Type:     ev.Type,
		ActionID: ev.ActionID,
		Title:    ev.Title,
		Points:   points(ev.Type),
		At:       time.Now().UTC(),
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal reward event: %w", err)
	}

	eventKey := eventKeyPrefix + stored.EventID
	userKey := userEventsPrefix + userID

	pipe := p.client.Pipeline()
	pipe.Set(ctx, eventKey, data, eventTTL)
	pipe.SAdd(ctx, userKey, stored.EventID)
	pipe.Expire(ctx, userKey, eventTTL)
	pipe.ZIncrBy(ctx, leaderboardKey, float64(stored.Points), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store reward event: %w", err)
	}

	p.client.Publish(ctx, eventChannelPrefix+userID, data)
	return nil
}

// Score returns the user's leaderboard score.
func (p *Publisher) Score(ctx context.Context, userID string) (float64, error) {
	score, err := p.client.ZScore(ctx, leaderboardKey, userID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("leaderboard score: %w", err)
	}
	return score, nil
}

func points(eventType string) int {
	if eventType == domain.EventItemCompleted {
		return pointsCompleted
	}
	return pointsCreated
}
