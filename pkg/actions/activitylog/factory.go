package activitylog

import (
	"fmt"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/protocol"
)

type ActionFactory struct {
	audit protocol.ActivityLog
}

func NewActionFactory(audit protocol.ActivityLog) *ActionFactory {
	return &ActionFactory{audit: audit}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionCreateActivityLog
}

func (f *ActionFactory) Create(config *models.ActionConfig) (protocol.Action, error) {
	if config == nil || config.ActivityLog == nil {
		return nil, fmt.Errorf("%w: create_activity_log requires a log config", models.ErrInvalidAction)
	}

	return &Action{config: config.ActivityLog, audit: f.audit}, nil
}
