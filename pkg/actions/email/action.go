// Package email implements the send_email action.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/protocol"
	"github.com/salesbridge/automation/pkg/template"
)

type Action struct {
	config *models.EmailConfig
	sender protocol.EmailSender
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error) {
	entity := executionCtx.Entity()

	to := template.Interpolate(a.config.To, entity)
	subject := template.Interpolate(a.config.Subject, entity)
	body := template.Interpolate(a.config.Body, entity)

	if to == "" {
		return "", errors.New("email recipient resolved to empty string")
	}

	logger.Debug("Sending email", "to", to, "subject", subject)

	if err := a.sender.Send(ctx, to, subject, body); err != nil {
		return "", fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return fmt.Sprintf("Email sent to %s: %s", to, subject), nil
}
