package escalate

import (
	"fmt"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
)

type ActionFactory struct {
	store persistence.Persistence
	sink  protocol.NotificationSink
	audit protocol.ActivityLog
}

func NewActionFactory(store persistence.Persistence, sink protocol.NotificationSink, audit protocol.ActivityLog) *ActionFactory {
	return &ActionFactory{store: store, sink: sink, audit: audit}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionEscalate
}

func (f *ActionFactory) Create(config *models.ActionConfig) (protocol.Action, error) {
	if config == nil || config.Escalate == nil {
		return nil, fmt.Errorf("%w: escalate requires a config", models.ErrInvalidAction)
	}

	return &Action{config: config.Escalate, store: f.store, sink: f.sink, audit: f.audit}, nil
}
