// Package notification implements the create_notification action. A role
// assignee fans the notification out to every user holding that role.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
	"github.com/salesbridge/automation/pkg/template"
)

type Action struct {
	config *models.NotificationConfig
	sink   protocol.NotificationSink
	store  persistence.Persistence
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error) {
	entity := executionCtx.Entity()

	title := template.Interpolate(a.config.Title, entity)
	message := template.Interpolate(a.config.Message, entity)
	assignee := models.ParseAssignee(a.config.UserID)

	if !assignee.IsRole() {
		if err := a.sink.Notify(ctx, assignee.Value, title, message, executionCtx.EntityType, executionCtx.EntityID); err != nil {
			return "", fmt.Errorf("failed to notify user %s: %w", assignee.Value, err)
		}

		return fmt.Sprintf("Notification sent to user %s: %s", assignee.Value, title), nil
	}

	users, err := a.store.UsersByRole(ctx, assignee.Value)
	if err != nil {
		return "", fmt.Errorf("failed to resolve role %s: %w", assignee.Value, err)
	}

	if len(users) == 0 {
		logger.Warn("Role has no users, notification dropped", "role", assignee.Value)

		return fmt.Sprintf("No users hold role %s, nothing sent", assignee.Value), nil
	}

	for _, user := range users {
		if err := a.sink.Notify(ctx, user.ID, title, message, executionCtx.EntityType, executionCtx.EntityID); err != nil {
			return "", fmt.Errorf("failed to notify user %s (role %s): %w", user.ID, assignee.Value, err)
		}
	}

	return fmt.Sprintf("Notification sent to %d user(s) with role %s: %s", len(users), assignee.Value, title), nil
}
