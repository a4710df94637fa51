package email

import (
	"fmt"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/protocol"
)

// ActionFactory builds send_email handlers bound to the application's
// email collaborator.
type ActionFactory struct {
	sender protocol.EmailSender
}

func NewActionFactory(sender protocol.EmailSender) *ActionFactory {
	return &ActionFactory{sender: sender}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionSendEmail
}

func (f *ActionFactory) Create(config *models.ActionConfig) (protocol.Action, error) {
	if config == nil || config.Email == nil {
		return nil, fmt.Errorf("%w: send_email requires an email config", models.ErrInvalidAction)
	}

	return &Action{config: config.Email, sender: f.sender}, nil
}
