package service

import "github.com/lifetribe/goals-backend/internal/goals/domain"

// ComputeEvents diffs the persisted action-item snapshot against the
// submitted state. An item whose id is absent from the snapshot yields
// ItemCreated; a not-done item that arrives done yields ItemCompleted;
// every other transition is silent. There is no cross-call deduplication:
// each genuine not-done to done transition is rewarded.
func ComputeEvents(prior, submitted []domain.ActionItem) []domain.ProgressionEvent {
	priorByID := make(map[string]domain.ActionItem, len(prior))
	for _, p := range prior {
		priorByID[p.ID] = p
	}

	var events []domain.ProgressionEvent
	for _, item := range submitted {
		old, ok := priorByID[item.ID]
		if !ok {
			events = append(events, domain.ProgressionEvent{
				Type:     domain.EventItemCreated,
				ActionID: item.ID,
				Title:    item.Title,
			})
			continue
		}
		if !old.Done && item.Done {
			events = append(events, domain.ProgressionEvent{
				Type:     domain.EventItemCompleted,
				ActionID: item.ID,
				Title:    item.Title,
			})
		}
	}
	return events
}
