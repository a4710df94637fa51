package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/registry"
)

// Worker consumes deferred actions, waits for their wake time, runs the
// handler, and settles the deferred step in the owning execution record.
type Worker struct {
	queue    *DelayQueue
	registry *registry.Registry
	store    persistence.Persistence
	logger   *slog.Logger
}

func NewWorker(queue *DelayQueue, reg *registry.Registry, store persistence.Persistence, logger *slog.Logger) *Worker {
	return &Worker{
		queue:    queue,
		registry: reg,
		store:    store,
		logger:   logger.With("module", "delay_worker"),
	}
}

// Start consumes deferred actions until the context is cancelled. Each
// message is handled on its own goroutine so a long wake time never blocks
// actions due earlier.
func (w *Worker) Start(ctx context.Context) error {
	messages, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			msg.Ack()

			go w.handle(ctx, msg)
		}
	}()

	w.logger.Info("Delay worker started")

	return nil
}

func (w *Worker) handle(ctx context.Context, msg *message.Message) {
	var delayed DelayedAction

	if err := json.Unmarshal(msg.Payload, &delayed); err != nil {
		w.logger.Error("Failed to decode delayed action, dropping", "error", err)

		return
	}

	logger := w.logger.With(
		"execution_id", delayed.ExecutionID,
		"action_id", delayed.Action.ID,
		"action_type", delayed.Action.Type,
	)

	if wait := time.Until(delayed.WakeAt); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			logger.Warn("Shutdown before wake time, deferred action not executed")

			return
		}
	}

	details, execErr := w.execute(ctx, &delayed, logger)

	if err := w.settle(ctx, &delayed, details, execErr); err != nil {
		logger.Error("Failed to settle deferred step", "error", err)
	}
}

func (w *Worker) execute(ctx context.Context, delayed *DelayedAction, logger *slog.Logger) (string, error) {
	handler, err := w.registry.CreateAction(&delayed.Action)
	if err != nil {
		return "", fmt.Errorf("failed to create handler: %w", err)
	}

	executionCtx := models.ExecutionContext{
		ExecutionID: delayed.ExecutionID,
		WorkflowID:  delayed.WorkflowID,
		EntityType:  delayed.EntityType,
		EntityID:    delayed.EntityID,
		Event:       delayed.Event,
	}

	logger.Info("Executing deferred action")

	return handler.Execute(ctx, executionCtx, logger)
}

// settle rewrites the deferred step record with the final outcome and
// re-derives the execution's terminal status.
func (w *Worker) settle(ctx context.Context, delayed *DelayedAction, details string, execErr error) error {
	execution, err := w.store.ExecutionByID(ctx, delayed.ExecutionID)
	if err != nil {
		return fmt.Errorf("failed to load execution %s: %w", delayed.ExecutionID, err)
	}

	settled := false

	for i := range execution.Log {
		step := &execution.Log[i]
		if step.ActionID != delayed.Action.ID || step.Status != models.StepDeferred {
			continue
		}

		step.Timestamp = time.Now().UTC()

		if execErr != nil {
			step.Status = models.StepFailed
			step.Error = execErr.Error()
		} else {
			step.Status = models.StepSuccess
			step.Details = details
		}

		settled = true

		break
	}

	if !settled {
		return fmt.Errorf("no deferred step for action %s in execution %s", delayed.Action.ID, delayed.ExecutionID)
	}

	execution.Status = models.DeriveStatus(execution.Log)

	if err := w.store.UpdateExecution(ctx, execution); err != nil {
		return fmt.Errorf("failed to update execution %s: %w", execution.ID, err)
	}

	return nil
}
