package rewards

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

func setupPublisher(t *testing.T) (*Publisher, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPublisher(client), mr
}

func TestPublish_StoresEventAndScores(t *testing.T) {
	pub, mr := setupPublisher(t)
	ctx := context.Background()

	err := pub.Publish(ctx, "user-1", domain.ProgressionEvent{
		Type:     domain.EventItemCompleted,
		ActionID: "act_0123456789abcdef0123456789abcdef",
		Title:    "First 10k",
	})
	require.NoError(t, err)

	ids, err := mr.SMembers("reward:user:user-1")
	require.NoError(t, err)
	require.Len(t, ids, 1)

	raw, err := mr.Get("reward:event:" + ids[0])
	require.NoError(t, err)

	var stored struct {
		UserID   string `json:"user_id"`
		Type     string `json:"type"`
		ActionID string `json:"action_id"`
		Points   int    `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, domain.EventItemCompleted, stored.Type)
	assert.Equal(t, 5, stored.Points)

	score, err := pub.Score(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, score)
}

func TestPublish_ScoresAccumulate(t *testing.T) {
	pub, _ := setupPublisher(t)
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, "user-1", domain.ProgressionEvent{Type: domain.EventItemCreated}))
	require.NoError(t, pub.Publish(ctx, "user-1", domain.ProgressionEvent{Type: domain.EventItemCompleted}))

	score, err := pub.Score(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 6.0, score) // 1 for created + 5 for completed
}

func TestScore_UnknownUserIsZero(t *testing.T) {
	pub, _ := setupPublisher(t)

	score, err := pub.Score(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}
