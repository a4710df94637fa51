// Package protocol defines the contracts between the engine and its action
// handlers and external collaborators.
package protocol

import (
	"context"
	"log/slog"

	"github.com/salesbridge/automation/pkg/models"
)

// Action is one executable handler. Execute returns a human-readable detail
// line for the execution's step log; an error marks the step failed without
// aborting the remaining actions.
type Action interface {
	Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error)
}

// ActionFactory builds a handler from a decoded action configuration.
type ActionFactory interface {
	Create(config *models.ActionConfig) (Action, error)
	ID() models.ActionType
}
