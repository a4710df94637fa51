// Package activitylog implements the create_activity_log action.
package activitylog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/protocol"
	"github.com/salesbridge/automation/pkg/template"
)

const systemUserID = "system"

type Action struct {
	config *models.ActivityLogConfig
	audit  protocol.ActivityLog
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error) {
	entity := executionCtx.Entity()

	activity := template.Interpolate(a.config.Action, entity)
	details := template.Interpolate(a.config.Details, entity)

	userID := a.config.UserID
	if userID == "" {
		userID = systemUserID
	}

	metadata := map[string]any{
		"details":      details,
		"workflow_id":  executionCtx.WorkflowID,
		"execution_id": executionCtx.ExecutionID,
	}

	err := a.audit.Log(ctx, userID, activity, executionCtx.EntityType, executionCtx.EntityID, metadata)
	if err != nil {
		return "", fmt.Errorf("failed to write activity log: %w", err)
	}

	return fmt.Sprintf("Activity logged: %s", activity), nil
}
