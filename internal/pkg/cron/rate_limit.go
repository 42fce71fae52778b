package cron

import (
	"context"
	"log/slog"
	"time"
)

// IdlePruner is satisfied by middleware.IPRateLimiter.
type IdlePruner interface {
	PruneIdle(idle time.Duration) int
}

type RateLimitJobs struct {
	limiters []IdlePruner
	idle     time.Duration
}

func NewRateLimitJobs(idle time.Duration, limiters ...IdlePruner) *RateLimitJobs {
	return &RateLimitJobs{limiters: limiters, idle: idle}
}

func (j *RateLimitJobs) RegisterJobs(scheduler *Scheduler) {
	if len(j.limiters) == 0 || j.idle <= 0 {
		return
	}
	scheduler.AddJob("prune_idle_limiters", j.idle, j.PruneIdleLimiters)
}

// PruneIdleLimiters forgets clients that have not called for the idle period.
func (j *RateLimitJobs) PruneIdleLimiters(ctx context.Context) error {
	pruned := 0
	for _, l := range j.limiters {
		pruned += l.PruneIdle(j.idle)
	}
	if pruned > 0 {
		slog.Info("Cron: pruned idle rate limiters", "count", pruned)
	}
	return nil
}
