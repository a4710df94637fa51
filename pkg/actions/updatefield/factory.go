package updatefield

import (
	"fmt"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/protocol"
)

type ActionFactory struct {
	store persistence.Persistence
}

func NewActionFactory(store persistence.Persistence) *ActionFactory {
	return &ActionFactory{store: store}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionUpdateField
}

func (f *ActionFactory) Create(config *models.ActionConfig) (protocol.Action, error) {
	if config == nil || config.UpdateField == nil {
		return nil, fmt.Errorf("%w: update_field requires a field config", models.ErrInvalidAction)
	}

	return &Action{config: config.UpdateField, store: f.store}, nil
}
