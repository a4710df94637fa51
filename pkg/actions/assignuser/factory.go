package assignuser

import (
	"fmt"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
)

type ActionFactory struct {
	store persistence.Persistence
	sink  protocol.NotificationSink
}

func NewActionFactory(store persistence.Persistence, sink protocol.NotificationSink) *ActionFactory {
	return &ActionFactory{store: store, sink: sink}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionAssignUser
}

func (f *ActionFactory) Create(config *models.ActionConfig) (protocol.Action, error) {
	if config == nil || config.AssignUser == nil {
		return nil, fmt.Errorf("%w: assign_user requires an assignment config", models.ErrInvalidAction)
	}

	return &Action{config: config.AssignUser, store: f.store, sink: f.sink}, nil
}
