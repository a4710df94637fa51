// Package escalate implements the escalate action: raise the entity's
// priority field, notify an escalation contact, and leave an audit entry.
package escalate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
)

const (
	defaultField = "priority"
	defaultValue = "urgent"
)

type Action struct {
	config *models.EscalateConfig
	store  persistence.Persistence
	sink   protocol.NotificationSink
	audit  protocol.ActivityLog
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error) {
	field := a.config.Field
	if field == "" {
		field = defaultField
	}

	value := a.config.Value
	if value == "" {
		value = defaultValue
	}

	err := a.store.UpdateEntityField(ctx, executionCtx.EntityType, executionCtx.EntityID, field, value)
	if err != nil {
		return "", fmt.Errorf("failed to escalate %s %s: %w", executionCtx.EntityType, executionCtx.EntityID, err)
	}

	notified := 0

	if a.config.Notify != "" {
		notified, err = a.notify(ctx, executionCtx)
		if err != nil {
			return "", err
		}
	}

	metadata := map[string]any{
		"field":        field,
		"value":        value,
		"workflow_id":  executionCtx.WorkflowID,
		"execution_id": executionCtx.ExecutionID,
	}

	if err := a.audit.Log(ctx, "system", "escalated", executionCtx.EntityType, executionCtx.EntityID, metadata); err != nil {
		logger.Warn("Escalation audit entry failed", "error", err)
	}

	return fmt.Sprintf("Escalated %s %s (%s=%s, %d notified)", executionCtx.EntityType, executionCtx.EntityID, field, value, notified), nil
}

func (a *Action) notify(ctx context.Context, executionCtx models.ExecutionContext) (int, error) {
	title := fmt.Sprintf("%s escalated", executionCtx.EntityType)
	message := fmt.Sprintf("%s %s was escalated automatically.", executionCtx.EntityType, executionCtx.EntityID)

	assignee := models.ParseAssignee(a.config.Notify)
	if !assignee.IsRole() {
		if err := a.sink.Notify(ctx, assignee.Value, title, message, executionCtx.EntityType, executionCtx.EntityID); err != nil {
			return 0, fmt.Errorf("failed to notify %s: %w", assignee.Value, err)
		}

		return 1, nil
	}

	users, err := a.store.UsersByRole(ctx, assignee.Value)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve role %s: %w", assignee.Value, err)
	}

	for _, user := range users {
		if err := a.sink.Notify(ctx, user.ID, title, message, executionCtx.EntityType, executionCtx.EntityID); err != nil {
			return 0, fmt.Errorf("failed to notify user %s: %w", user.ID, err)
		}
	}

	return len(users), nil
}
