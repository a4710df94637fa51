// Package webhook implements the webhook action: a JSON POST describing the
// triggering event, with a per-request timeout and bounded retry on transport
// errors and 5xx responses.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/template"
)

type Action struct {
	config      *models.WebhookConfig
	client      *http.Client
	timeout     time.Duration
	maxAttempts int
}

type payload struct {
	Event      string            `json:"event"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Entity     map[string]any    `json:"entity,omitempty"`
	Payload    map[string]string `json:"payload,omitempty"`
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error) {
	event := a.config.Event
	if event == "" && executionCtx.Event != nil {
		event = string(executionCtx.Event.EventType)
	}

	body, err := json.Marshal(payload{
		Event:      event,
		EntityType: executionCtx.EntityType,
		EntityID:   executionCtx.EntityID,
		Entity:     executionCtx.Entity(),
		Payload:    template.InterpolateMap(a.config.Payload, executionCtx.Entity()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	var lastErr error

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * time.Second

			logger.Debug("Retrying webhook", "attempt", attempt, "backoff", backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		status, err := a.post(ctx, body)
		if err != nil {
			lastErr = err

			continue
		}

		if status >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("webhook returned status %d", status)

			continue
		}

		if status >= http.StatusMultipleChoices {
			return "", fmt.Errorf("webhook rejected with status %d", status)
		}

		return fmt.Sprintf("Webhook delivered to %s (status %d)", a.config.URL, status), nil
	}

	return "", fmt.Errorf("webhook failed after %d attempt(s): %w", a.maxAttempts, lastErr)
}

func (a *Action) post(ctx context.Context, body []byte) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("webhook request failed: %w", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	return resp.StatusCode, nil
}
