package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/salesbridge/automation/pkg/expression"
	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/queue"
	"github.com/salesbridge/automation/pkg/registry"
	"github.com/salesbridge/automation/pkg/template"
)

const defaultActionTimeout = 30 * time.Second

// Executor runs a workflow's actions in execution order. Failures are
// isolated per action: a failed step never aborts the remaining ones.
type Executor struct {
	registry      *registry.Registry
	delayQueue    *queue.DelayQueue
	logger        *slog.Logger
	actionTimeout time.Duration
}

func NewExecutor(reg *registry.Registry, delayQueue *queue.DelayQueue, logger *slog.Logger) *Executor {
	return &Executor{
		registry:      reg,
		delayQueue:    delayQueue,
		logger:        logger.With("module", "action_executor"),
		actionTimeout: defaultActionTimeout,
	}
}

// Run executes the actions against one execution and returns the ordered
// step log.
func (e *Executor) Run(ctx context.Context, actions []*models.Action, executionCtx models.ExecutionContext) []models.StepRecord {
	ordered := make([]*models.Action, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExecutionOrder < ordered[j].ExecutionOrder
	})

	log := make([]models.StepRecord, 0, len(ordered))

	for _, action := range ordered {
		log = append(log, e.runAction(ctx, action, executionCtx))
	}

	return log
}

func (e *Executor) runAction(ctx context.Context, action *models.Action, executionCtx models.ExecutionContext) models.StepRecord {
	step := models.StepRecord{
		ActionID:   action.ID,
		ActionType: action.Type,
		Timestamp:  time.Now().UTC(),
	}

	logger := e.logger.With(
		"execution_id", executionCtx.ExecutionID,
		"action_id", action.ID,
		"action_type", action.Type,
	)

	if !action.IsActive {
		step.Status = models.StepSkipped
		step.Details = "Action is inactive"

		return step
	}

	if action.ConditionExpression != "" {
		matched, err := e.evaluateGuard(action.ConditionExpression, executionCtx)
		if err != nil {
			logger.Warn("Guard expression failed", "error", err)

			step.Status = models.StepFailed
			step.Error = err.Error()

			return step
		}

		if !matched {
			step.Status = models.StepSkipped
			step.Details = "Condition not met"

			return step
		}
	}

	if action.DelayMinutes > 0 {
		return e.enqueueDeferred(ctx, action, executionCtx, step, logger)
	}

	details, err := e.dispatch(ctx, action, executionCtx, logger)
	if err != nil {
		logger.Warn("Action failed", "error", err)

		step.Status = models.StepFailed
		step.Error = err.Error()

		return step
	}

	step.Status = models.StepSuccess
	step.Details = details

	return step
}

// evaluateGuard interpolates the guard template against the entity and
// evaluates the result as a sandboxed boolean expression.
func (e *Executor) evaluateGuard(guard string, executionCtx models.ExecutionContext) (bool, error) {
	interpolated := template.Interpolate(guard, executionCtx.Entity())

	return expression.EvalBool(interpolated, executionCtx.Entity())
}

func (e *Executor) enqueueDeferred(ctx context.Context, action *models.Action, executionCtx models.ExecutionContext, step models.StepRecord, logger *slog.Logger) models.StepRecord {
	wakeAt := time.Now().UTC().Add(time.Duration(action.DelayMinutes) * time.Minute)

	err := e.delayQueue.Enqueue(ctx, &queue.DelayedAction{
		ExecutionID: executionCtx.ExecutionID,
		WorkflowID:  executionCtx.WorkflowID,
		EntityType:  executionCtx.EntityType,
		EntityID:    executionCtx.EntityID,
		Action:      *action,
		Event:       executionCtx.Event,
		WakeAt:      wakeAt,
	})
	if err != nil {
		logger.Warn("Failed to defer action", "error", err)

		step.Status = models.StepFailed
		step.Error = err.Error()

		return step
	}

	step.Status = models.StepDeferred
	step.Details = fmt.Sprintf("Deferred by %d minute(s), wakes at %s", action.DelayMinutes, wakeAt.Format(time.RFC3339))

	return step
}

// dispatch creates the handler and runs it under the per-action timeout,
// converting panics into step failures.
func (e *Executor) dispatch(ctx context.Context, action *models.Action, executionCtx models.ExecutionContext, logger *slog.Logger) (details string, err error) {
	handler, err := e.registry.CreateAction(action)
	if err != nil {
		return "", err
	}

	actionCtx, cancel := context.WithTimeout(ctx, e.actionTimeout)
	defer cancel()

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("action handler panicked: %v", recovered)
		}
	}()

	return handler.Execute(actionCtx, executionCtx, logger)
}
