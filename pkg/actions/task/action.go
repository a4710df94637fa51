// Package task implements the create_task action: insert a follow-up task
// linked to the triggering entity and notify its assignee.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
	"github.com/salesbridge/automation/pkg/template"
)

type Action struct {
	config *models.TaskConfig
	store  persistence.Persistence
	sink   protocol.NotificationSink
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error) {
	entity := executionCtx.Entity()

	title := template.Interpolate(a.config.Title, entity)
	description := template.Interpolate(a.config.Description, entity)

	assigneeID, err := a.resolveAssignee(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	newTask := &models.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		EntityType:  executionCtx.EntityType,
		EntityID:    executionCtx.EntityID,
		AssigneeID:  assigneeID,
		Status:      "open",
		CreatedAt:   now,
	}

	if a.config.DueInDays > 0 {
		dueAt := now.AddDate(0, 0, a.config.DueInDays)
		newTask.DueAt = &dueAt
	}

	if err := a.store.CreateTask(ctx, newTask); err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}

	if assigneeID != "" {
		message := fmt.Sprintf("A new task was created for %s %s.", executionCtx.EntityType, executionCtx.EntityID)
		if err := a.sink.Notify(ctx, assigneeID, title, message, executionCtx.EntityType, executionCtx.EntityID); err != nil {
			logger.Warn("Task assignee notification failed", "user_id", assigneeID, "error", err)
		}
	}

	return fmt.Sprintf("Task %s created: %s", newTask.ID, title), nil
}

func (a *Action) resolveAssignee(ctx context.Context) (string, error) {
	if a.config.Assignee == "" {
		return "", nil
	}

	assignee := models.ParseAssignee(a.config.Assignee)
	if !assignee.IsRole() {
		return assignee.Value, nil
	}

	users, err := a.store.UsersByRole(ctx, assignee.Value)
	if err != nil {
		return "", fmt.Errorf("failed to resolve role %s: %w", assignee.Value, err)
	}

	if len(users) == 0 {
		return "", fmt.Errorf("role %s has no users to assign the task to", assignee.Value)
	}

	return users[0].ID, nil
}
