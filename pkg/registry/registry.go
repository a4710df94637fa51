// Package registry maps action types to their handler factories and
// validates raw action configurations against per-type JSON schemas.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/salesbridge/automation/pkg/actions/activitylog"
	"github.com/salesbridge/automation/pkg/actions/assignuser"
	"github.com/salesbridge/automation/pkg/actions/email"
	"github.com/salesbridge/automation/pkg/actions/escalate"
	"github.com/salesbridge/automation/pkg/actions/notification"
	"github.com/salesbridge/automation/pkg/actions/task"
	"github.com/salesbridge/automation/pkg/actions/updatefield"
	"github.com/salesbridge/automation/pkg/actions/webhook"
	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
)

type Registry struct {
	logger          *slog.Logger
	actionFactories map[models.ActionType]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:          logger.With("module", "registry"),
		actionFactories: make(map[models.ActionType]protocol.ActionFactory),
	}
}

// Collaborators bundles the external services action handlers depend on.
type Collaborators struct {
	Store         persistence.Persistence
	Notifications protocol.NotificationSink
	Email         protocol.EmailSender
	Activity      protocol.ActivityLog
}

// NewDefaultRegistry registers every built-in action handler.
func NewDefaultRegistry(logger *slog.Logger, c Collaborators) *Registry {
	r := NewRegistry(logger)

	r.RegisterAction(email.NewActionFactory(c.Email))
	r.RegisterAction(notification.NewActionFactory(c.Notifications, c.Store))
	r.RegisterAction(updatefield.NewActionFactory(c.Store))
	r.RegisterAction(assignuser.NewActionFactory(c.Store, c.Notifications))
	r.RegisterAction(activitylog.NewActionFactory(c.Activity))
	r.RegisterAction(webhook.NewActionFactory())
	r.RegisterAction(escalate.NewActionFactory(c.Store, c.Notifications, c.Activity))
	r.RegisterAction(task.NewActionFactory(c.Store, c.Notifications))

	return r
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.actionFactories[factory.ID()] = factory
}

// HasAction reports whether a handler is registered for the action type.
func (r *Registry) HasAction(actionType models.ActionType) bool {
	_, ok := r.actionFactories[actionType]

	return ok
}

// CreateAction validates the action's raw config against its schema, decodes
// it, and hands it to the registered factory.
func (r *Registry) CreateAction(action *models.Action) (protocol.Action, error) {
	factory, ok := r.actionFactories[action.Type]
	if !ok {
		return nil, fmt.Errorf("action type %q not registered", action.Type)
	}

	if err := ValidateActionConfig(action.Type, action.Config); err != nil {
		return nil, err
	}

	decoded, err := action.Decode()
	if err != nil {
		return nil, err
	}

	return factory.Create(decoded)
}
