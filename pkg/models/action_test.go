package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionDecode_Email(t *testing.T) {
	action := &Action{
		ID:     "a-1",
		Type:   ActionSendEmail,
		Config: json.RawMessage(`{"to": "{{client.email}}", "subject": "Quote {{quote_number}}", "body": "Hi"}`),
	}

	decoded, err := action.Decode()

	require.NoError(t, err)
	require.NotNil(t, decoded.Email)
	assert.Equal(t, "{{client.email}}", decoded.Email.To)
	assert.Nil(t, decoded.Webhook)
}

func TestActionDecode_WebhookDefaultsLeftToHandler(t *testing.T) {
	action := &Action{
		ID:     "a-2",
		Type:   ActionWebhook,
		Config: json.RawMessage(`{"url": "https://hooks.example.com/x"}`),
	}

	decoded, err := action.Decode()

	require.NoError(t, err)
	require.NotNil(t, decoded.Webhook)
	assert.Equal(t, "https://hooks.example.com/x", decoded.Webhook.URL)
	assert.Zero(t, decoded.Webhook.TimeoutSeconds)
	assert.Zero(t, decoded.Webhook.MaxAttempts)
}

func TestActionDecode_EmptyConfig(t *testing.T) {
	action := &Action{ID: "a-3", Type: ActionEscalate}

	decoded, err := action.Decode()

	require.NoError(t, err)
	require.NotNil(t, decoded.Escalate)
	assert.Empty(t, decoded.Escalate.Field)
}

func TestActionDecode_UnknownType(t *testing.T) {
	action := &Action{ID: "a-4", Type: ActionType("launch_rocket")}

	_, err := action.Decode()

	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestActionDecode_MalformedConfig(t *testing.T) {
	action := &Action{
		ID:     "a-5",
		Type:   ActionCreateTask,
		Config: json.RawMessage(`{"title":`),
	}

	_, err := action.Decode()

	require.ErrorIs(t, err, ErrInvalidAction)
}
