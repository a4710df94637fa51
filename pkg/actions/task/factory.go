package task

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
	return models.ActionCreateTask
}

func (f *ActionFactory) Create(config *models.ActionConfig) (protocol.Action, error) {
	if config == nil || config.Task == nil {
		return nil, fmt.Errorf("%w: create_task requires a task config", models.ErrInvalidAction)
	}

	return &Action{config: config.Task, store: f.store, sink: f.sink}, nil
}
