package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salesbridge/automation/pkg/dedup"
	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
)

// ErrDuplicateEvent marks a firing suppressed by the idempotency guard.
var ErrDuplicateEvent = errors.New("duplicate triggering event")

// Recorder owns the execution record lifecycle: claim, create as running,
// finalize exactly once.
type Recorder struct {
	store  persistence.Persistence
	guard  dedup.Guard
	logger *slog.Logger
}

func NewRecorder(store persistence.Persistence, guard dedup.Guard, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		guard:  guard,
		logger: logger.With("module", "execution_recorder"),
	}
}

// Begin claims the firing's idempotency key and creates the execution row in
// status running. A rejected claim returns ErrDuplicateEvent and no row.
func (r *Recorder) Begin(ctx context.Context, workflow *models.Workflow, entityType, entityID string, event *models.EventContext) (*models.Execution, error) {
	if r.guard != nil && event.EventID != "" {
		claimed, err := r.guard.Claim(ctx, dedup.Key(entityType, entityID, workflow.ID, event.EventID))
		if err != nil {
			return nil, fmt.Errorf("idempotency claim failed: %w", err)
		}

		if !claimed {
			return nil, ErrDuplicateEvent
		}
	}

	execution := &models.Execution{
		ID:          uuid.New().String(),
		WorkflowID:  workflow.ID,
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      models.ExecutionRunning,
		TriggeredBy: event.TriggeredBy,
		TriggeredAt: time.Now().UTC(),
	}

	if err := r.store.CreateExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	return execution, nil
}

// Complete attaches the step log and derives the terminal status.
func (r *Recorder) Complete(ctx context.Context, execution *models.Execution, log []models.StepRecord, startedAt time.Time) error {
	completedAt := time.Now().UTC()

	execution.Log = log
	execution.Status = models.DeriveStatus(log)
	execution.CompletedAt = &completedAt
	execution.DurationMS = time.Since(startedAt).Milliseconds()

	if err := r.store.UpdateExecution(ctx, execution); err != nil {
		return fmt.Errorf("failed to finalize execution %s: %w", execution.ID, err)
	}

	return nil
}

// Fail marks the execution failed after an engine-level fault.
func (r *Recorder) Fail(ctx context.Context, execution *models.Execution, execErr error, startedAt time.Time) error {
	completedAt := time.Now().UTC()

	execution.Status = models.ExecutionFailed
	execution.ErrorMsg = execErr.Error()
	execution.CompletedAt = &completedAt
	execution.DurationMS = time.Since(startedAt).Milliseconds()

	if err := r.store.UpdateExecution(ctx, execution); err != nil {
		return fmt.Errorf("failed to mark execution %s failed: %w", execution.ID, err)
	}

	return nil
}
