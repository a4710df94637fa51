package cmd

import (
	"context"
	"log/slog"

	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/registry"
)

// NewDefaultRegistry builds the action registry with log-backed collaborators.
func NewDefaultRegistry(store persistence.Persistence, logger *slog.Logger) *registry.Registry {
	return registry.NewDefaultRegistry(logger, NewLogCollaborators(store, logger))
}

// NewLogCollaborators wires log-backed stand-ins for the collaborator
// services the surrounding application normally provides. Notifications,
// mail, and audit entries are emitted as structured log records so the
// engine is fully runnable standalone.
func NewLogCollaborators(store persistence.Persistence, logger *slog.Logger) registry.Collaborators {
	return registry.Collaborators{
		Store:         store,
		Notifications: &logNotificationSink{logger: logger.With("module", "notifications")},
		Email:         &logEmailSender{logger: logger.With("module", "email")},
		Activity:      &logActivityLog{logger: logger.With("module", "activity_log")},
	}
}

type logNotificationSink struct {
	logger *slog.Logger
}

func (s *logNotificationSink) Notify(ctx context.Context, userID, title, message, entityType, entityID string) error {
	s.logger.InfoContext(ctx, "Notification",
		"user_id", userID,
		"title", title,
		"message", message,
		"entity_type", entityType,
		"entity_id", entityID)

	return nil
}

type logEmailSender struct {
	logger *slog.Logger
}

func (s *logEmailSender) Send(ctx context.Context, to, subject, _ string) error {
	s.logger.InfoContext(ctx, "Email", "to", to, "subject", subject)

	return nil
}

type logActivityLog struct {
	logger *slog.Logger
}

func (s *logActivityLog) Log(ctx context.Context, userID, action, entityType, entityID string, metadata map[string]any) error {
	s.logger.InfoContext(ctx, "Activity",
		"user_id", userID,
		"action", action,
		"entity_type", entityType,
		"entity_id", entityID,
		"metadata", metadata)

	return nil
}
