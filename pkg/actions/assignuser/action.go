// Package assignuser implements the assign_user action: set an assignment
// field on the entity and notify the assignee. Role assignees resolve to the
// first user holding the role.
package assignuser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
)

const defaultAssignmentField = "assigned_to"

type Action struct {
	config *models.AssignUserConfig
	store  persistence.Persistence
	sink   protocol.NotificationSink
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error) {
	assignee := models.ParseAssignee(a.config.UserID)

	userID := assignee.Value
	if assignee.IsRole() {
		users, err := a.store.UsersByRole(ctx, assignee.Value)
		if err != nil {
			return "", fmt.Errorf("failed to resolve role %s: %w", assignee.Value, err)
		}

		if len(users) == 0 {
			return "", fmt.Errorf("role %s has no users to assign", assignee.Value)
		}

		userID = users[0].ID
	}

	field := a.config.Field
	if field == "" {
		field = defaultAssignmentField
	}

	err := a.store.UpdateEntityField(ctx, executionCtx.EntityType, executionCtx.EntityID, field, userID)
	if err != nil {
		return "", fmt.Errorf("failed to assign %s %s to user %s: %w", executionCtx.EntityType, executionCtx.EntityID, userID, err)
	}

	title := fmt.Sprintf("You have been assigned a %s", executionCtx.EntityType)
	message := fmt.Sprintf("%s %s was assigned to you automatically.", executionCtx.EntityType, executionCtx.EntityID)

	if err := a.sink.Notify(ctx, userID, title, message, executionCtx.EntityType, executionCtx.EntityID); err != nil {
		// Assignment already happened; surface the partial outcome instead of failing the step.
		logger.Warn("Assignee notification failed", "user_id", userID, "error", err)

		return fmt.Sprintf("Assigned %s %s to user %s (notification failed)", executionCtx.EntityType, executionCtx.EntityID, userID), nil
	}

	return fmt.Sprintf("Assigned %s %s to user %s", executionCtx.EntityType, executionCtx.EntityID, userID), nil
}
