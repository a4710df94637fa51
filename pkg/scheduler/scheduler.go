// Package scheduler sweeps active schedules and fires workflows whose next
// run time has elapsed. The sweep is driven externally: the daemon calls
// Tick on a poll interval, tests call it directly.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/salesbridge/automation/pkg/engine"
	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
)

// ScheduledEntityID is the placeholder entity id for time-based firings,
// which carry no real entity payload.
const ScheduledEntityID = "scheduled"

const triggeredBySchedule = "schedule"

type Scheduler struct {
	store  persistence.Persistence
	engine *engine.Engine
	logger *slog.Logger
	now    func() time.Time
}

func New(store persistence.Persistence, eng *engine.Engine, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		engine: eng,
		logger: logger.With("module", "scheduler"),
		now:    time.Now,
	}
}

// NewAt pins the scheduler's clock for tests.
func NewAt(store persistence.Persistence, eng *engine.Engine, logger *slog.Logger, now func() time.Time) *Scheduler {
	s := New(store, eng, logger)
	s.now = now

	return s
}

// Start runs the sweep on the given interval until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	s.logger.Info("Scheduler started", "poll_interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")

			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("Schedule sweep failed", "error", err)
			}
		}
	}
}

// Tick fires every due schedule once and advances its next run time. A
// broken schedule is logged and skipped; it never stops the sweep.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now().UTC()

	schedules, err := s.store.ActiveSchedules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		if !schedule.IsDue(now) {
			continue
		}

		if err := s.fire(ctx, schedule, now); err != nil {
			s.logger.Error("Schedule firing failed",
				"schedule_id", schedule.ID,
				"workflow_id", schedule.WorkflowID,
				"error", err)
		}
	}

	return nil
}

func (s *Scheduler) fire(ctx context.Context, schedule *models.Schedule, now time.Time) error {
	workflow, err := s.store.WorkflowByID(ctx, schedule.WorkflowID)
	if err != nil {
		return fmt.Errorf("failed to load workflow %s: %w", schedule.WorkflowID, err)
	}

	if workflow != nil && workflow.IsActive() {
		event := &models.EventContext{
			EventType:   models.EventTimeBased,
			Entity:      map[string]any{},
			TriggeredBy: triggeredBySchedule,
		}

		if err := s.engine.TriggerWorkflows(ctx, workflow.EntityType, ScheduledEntityID, event); err != nil {
			return err
		}
	} else {
		s.logger.Debug("Owning workflow inactive, schedule skipped", "schedule_id", schedule.ID)
	}

	// Advance the schedule even when the workflow was skipped so a dormant
	// workflow does not turn the schedule into a busy loop.
	schedule.LastRunAt = &now

	next, err := schedule.NextOccurrence(now)
	if err != nil {
		return fmt.Errorf("failed to compute next occurrence: %w", err)
	}

	schedule.NextRunAt = &next

	if err := s.store.UpdateSchedule(ctx, schedule); err != nil {
		return fmt.Errorf("failed to update schedule %s: %w", schedule.ID, err)
	}

	return nil
}
