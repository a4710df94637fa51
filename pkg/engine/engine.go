// Package engine evaluates workflow triggers against application events and
// executes matching workflows, recording a full audit trail per firing.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/salesbridge/automation/pkg/dedup"
	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/queue"
	"github.com/salesbridge/automation/pkg/registry"
	"github.com/salesbridge/automation/pkg/tracer"
)

// Engine is the orchestrator and single public entry point: the surrounding
// application calls TriggerWorkflows whenever an entity is created, changes,
// or needs manual re-evaluation; the scheduler calls it for time_based
// firings.
type Engine struct {
	store    persistence.Persistence
	matcher  *Matcher
	executor *Executor
	recorder *Recorder
	logger   *slog.Logger
	tracer   trace.Tracer
}

func New(store persistence.Persistence, reg *registry.Registry, delayQueue *queue.DelayQueue, guard dedup.Guard, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		matcher:  NewMatcher(logger),
		executor: NewExecutor(reg, delayQueue, logger),
		recorder: NewRecorder(store, guard, logger),
		logger:   logger.With("module", "workflow_engine"),
		tracer:   tracer.Tracer("workflow_engine"),
	}
}

// TriggerWorkflows evaluates every active workflow for the entity type
// against the event and fires the matching ones. Workflows are independent:
// one workflow's evaluation or execution failure never blocks another's.
func (e *Engine) TriggerWorkflows(ctx context.Context, entityType, entityID string, event *models.EventContext) error {
	if event == nil {
		return errors.New("event context is required")
	}

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}

	ctx, span := tracer.StartSpan(ctx, e.tracer, "trigger_workflows",
		attribute.String(tracer.EntityTypeKey, entityType),
		attribute.String(tracer.EntityIDKey, entityID),
		attribute.String(tracer.EventTypeKey, string(event.EventType)),
	)
	defer span.End()

	logger := e.logger.With(
		"entity_type", entityType,
		"entity_id", entityID,
		"event_type", event.EventType,
	)

	workflows, err := e.store.ActiveWorkflowsByEntityType(ctx, entityType)
	if err != nil {
		return fmt.Errorf("failed to load workflows for %s: %w", entityType, err)
	}

	if len(workflows) == 0 {
		logger.Debug("No active workflows for entity type")

		return nil
	}

	// Higher priority fires first when ordering matters.
	sort.SliceStable(workflows, func(i, j int) bool {
		return workflows[i].Priority > workflows[j].Priority
	})

	for _, workflow := range workflows {
		if err := e.fireWorkflow(ctx, workflow, entityType, entityID, event); err != nil {
			if errors.Is(err, ErrDuplicateEvent) {
				logger.Debug("Duplicate event, firing suppressed", "workflow_id", workflow.ID)

				continue
			}

			logger.Error("Workflow firing failed", "workflow_id", workflow.ID, "error", err)
		}
	}

	return nil
}

func (e *Engine) fireWorkflow(ctx context.Context, workflow *models.Workflow, entityType, entityID string, event *models.EventContext) error {
	ctx, span := tracer.StartSpan(ctx, e.tracer, "fire_workflow",
		attribute.String(tracer.WorkflowIDKey, workflow.ID),
		attribute.String(tracer.WorkflowNameKey, workflow.Name),
	)
	defer span.End()

	logger := e.logger.With("workflow_id", workflow.ID, "workflow_name", workflow.Name)

	triggers, err := e.store.TriggersByWorkflow(ctx, workflow.ID)
	if err != nil {
		return fmt.Errorf("failed to load triggers: %w", err)
	}

	matched, err := e.matcher.ShouldFire(workflow, triggers, event)
	if err != nil {
		// Evaluation errors are treated as "no fire".
		logger.Warn("Trigger evaluation failed, workflow will not fire", "error", err)

		return nil
	}

	if !matched {
		return nil
	}

	logger.Info("Workflow matched, executing")

	actions, err := e.store.ActionsByWorkflow(ctx, workflow.ID)
	if err != nil {
		return fmt.Errorf("failed to load actions: %w", err)
	}

	startedAt := time.Now()

	execution, err := e.recorder.Begin(ctx, workflow, entityType, entityID, event)
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.String(tracer.ExecutionIDKey, execution.ID))

	executionCtx := models.ExecutionContext{
		ExecutionID: execution.ID,
		WorkflowID:  workflow.ID,
		EntityType:  entityType,
		EntityID:    entityID,
		Event:       event,
	}

	stepLog, runErr := e.runActions(ctx, actions, executionCtx)
	if runErr != nil {
		if failErr := e.recorder.Fail(ctx, execution, runErr, startedAt); failErr != nil {
			logger.Error("Failed to record execution failure", "error", failErr)
		}

		return runErr
	}

	if err := e.recorder.Complete(ctx, execution, stepLog, startedAt); err != nil {
		return err
	}

	logger.Info("Workflow execution finished",
		"execution_id", execution.ID,
		"status", execution.Status,
		"steps", len(stepLog),
	)

	return nil
}

// runActions isolates the executor behind a recover so an engine-level panic
// surfaces as a failed execution rather than a crashed caller.
func (e *Engine) runActions(ctx context.Context, actions []*models.Action, executionCtx models.ExecutionContext) (log []models.StepRecord, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("action execution panicked: %v", recovered)
		}
	}()

	return e.executor.Run(ctx, actions, executionCtx), nil
}
