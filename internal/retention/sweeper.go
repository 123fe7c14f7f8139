// Package retention hard-deletes soft-deleted goal trees once they age
// past the configured window.
package retention

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lifetribe/goals-backend/internal/goals/repository"
)

type Sweeper struct {
	goals          *repository.GoalRepository
	purgeAfterDays int
	cron           *cron.Cron
}

func NewSweeper(goals *repository.GoalRepository, purgeAfterDays int) *Sweeper {
	return &Sweeper{goals: goals, purgeAfterDays: purgeAfterDays}
}

// Start schedules the nightly purge at 12:00 AM.
func (s *Sweeper) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		log.Printf("Failed to create retention cron job: %v", err)
		return
	}

	log.Printf("Retention sweeper started (nightly purge, keep %d days)", s.purgeAfterDays)
	c.Start()
	s.cron = c
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce purges trees soft-deleted before the retention cutoff.
func (s *Sweeper) RunOnce(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.purgeAfterDays)

	purged, err := s.goals.PurgeDeleted(ctx, cutoff)
	if err != nil {
		log.Printf("Retention purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Retention purge removed %d goal trees deleted before %s", purged, cutoff.Format(time.RFC3339))
	}
}
