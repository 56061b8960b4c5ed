package seo

import (
	"context"
	"fmt"
)

// JobHandler runs one scheduled hook.
type JobHandler func(ctx context.Context) error

// JobRunner executes due scheduled events.
type JobRunner struct {
	scheduler Scheduler
	handlers  map[string]JobHandler
	logger    Logger
	clock     Clock
}

func NewJobRunner(scheduler Scheduler, logger Logger, clock Clock) *JobRunner {
	return &JobRunner{
		scheduler: scheduler,
		handlers:  make(map[string]JobHandler),
		logger:    logger,
		clock:     clock,
	}
}

// Handle registers h for hook, replacing any previous handler.
func (r *JobRunner) Handle(hook string, h JobHandler) {
	r.handlers[hook] = h
}

// RunDue runs every event that is due and returns how many ran.
// An event is unscheduled only after its handler succeeds; events without a
// handler stay queued.
func (r *JobRunner) RunDue(ctx context.Context) (int, error) {
	events, err := r.scheduler.DueEvents(ctx, r.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("listing due events: %w", err)
	}

	ran := 0
	for _, ev := range events {
		h, ok := r.handlers[ev.Hook]
		if !ok {
			r.logger.Warn("no handler for scheduled event", "hook", ev.Hook, "id", ev.ID)
			continue
		}
		if err := h(ctx); err != nil {
			return ran, fmt.Errorf("running %s: %w", ev.Hook, err)
		}
		if err := r.scheduler.Unschedule(ctx, ev.ID); err != nil {
			return ran, fmt.Errorf("unscheduling %s: %w", ev.Hook, err)
		}
		r.logger.Info("scheduled event ran", "hook", ev.Hook, "id", ev.ID)
		ran++
	}
	return ran, nil
}
