package domain

// Progression event types consumed by the reward collaborator.
const (
	EventItemCreated   = "item_created"
	EventItemCompleted = "item_completed"
)

// ProgressionEvent signals a rewardable transition on an action item,
// detected by diffing the persisted state against a submission.
type ProgressionEvent struct {
	Type     string `json:"type"`
	ActionID string `json:"action_id"`
	Title    string `json:"title"`
}
