package notification

import (
	"fmt"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
)

type ActionFactory struct {
	sink  protocol.NotificationSink
	store persistence.Persistence
}

func NewActionFactory(sink protocol.NotificationSink, store persistence.Persistence) *ActionFactory {
	return &ActionFactory{sink: sink, store: store}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionCreateNotification
}

func (f *ActionFactory) Create(config *models.ActionConfig) (protocol.Action, error) {
	if config == nil || config.Notification == nil {
		return nil, fmt.Errorf("%w: create_notification requires a notification config", models.ErrInvalidAction)
	}

	return &Action{config: config.Notification, sink: f.sink, store: f.store}, nil
}
