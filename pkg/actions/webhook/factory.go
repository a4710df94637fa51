package webhook

import (
	"fmt"
	"net/http"
	"time"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/protocol"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
)

type ActionFactory struct {
	client *http.Client
}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{client: &http.Client{}}
}

// NewActionFactoryWithClient allows tests to inject a transport.
func NewActionFactoryWithClient(client *http.Client) *ActionFactory {
	return &ActionFactory{client: client}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionWebhook
}

func (f *ActionFactory) Create(config *models.ActionConfig) (protocol.Action, error) {
	if config == nil || config.Webhook == nil || config.Webhook.URL == "" {
		return nil, fmt.Errorf("%w: webhook requires a url", models.ErrInvalidAction)
	}

	timeout := defaultTimeout
	if config.Webhook.TimeoutSeconds > 0 {
		timeout = time.Duration(config.Webhook.TimeoutSeconds) * time.Second
	}

	attempts := defaultMaxAttempts
	if config.Webhook.MaxAttempts > 0 {
		attempts = config.Webhook.MaxAttempts
	}

	return &Action{
		config:      config.Webhook,
		client:      f.client,
		timeout:     timeout,
		maxAttempts: attempts,
	}, nil
}
