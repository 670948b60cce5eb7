package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NiranEC77/helens-dashboard/observability"
)

// Scheduler runs the periodic snapshot warmer. Each tick rebuilds the
// movers view, which refreshes the cached fallback snapshot as a side
// effect, so a cold restart during a provider outage still has data.
type Scheduler struct {
	cron *cron.Cron
	warm func(ctx context.Context)
	ctx  context.Context
}

// New creates a Scheduler around a warm function.
func New(ctx context.Context, warm func(ctx context.Context)) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		warm: warm,
		ctx:  ctx,
	}
}

// Register adds the warmer under the given six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.warmTask); err != nil {
		return fmt.Errorf("register warmer: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	observability.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	observability.Info("scheduler stopped")
}

// RunNow executes the warmer immediately, ahead of its schedule.
func (s *Scheduler) RunNow() {
	s.warmTask()
}

func (s *Scheduler) warmTask() {
	start := time.Now()
	observability.Info("running snapshot warmer")

	ctx, cancel := context.WithTimeout(s.ctx, 3*time.Minute)
	defer cancel()

	s.warm(ctx)
	observability.Info("snapshot warmer finished", "duration", time.Since(start).String())
}
