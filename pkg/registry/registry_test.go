package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence/file"
)

type noopSink struct{}

func (noopSink) Notify(context.Context, string, string, string, string, string) error { return nil }

type noopEmail struct{}

func (noopEmail) Send(context.Context, string, string, string) error { return nil }

type noopActivity struct{}

func (noopActivity) Log(context.Context, string, string, string, string, map[string]any) error {
	return nil
}

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()

	return NewDefaultRegistry(slog.Default(), Collaborators{
		Store:         file.NewPersistence(t.TempDir()),
		Notifications: noopSink{},
		Email:         noopEmail{},
		Activity:      noopActivity{},
	})
}

func TestNewDefaultRegistry_RegistersEveryActionType(t *testing.T) {
	reg := defaultRegistry(t)

	for _, actionType := range []models.ActionType{
		models.ActionSendEmail,
		models.ActionCreateNotification,
		models.ActionUpdateField,
		models.ActionAssignUser,
		models.ActionCreateTask,
		models.ActionEscalate,
		models.ActionWebhook,
		models.ActionCreateActivityLog,
	} {
		assert.True(t, reg.HasAction(actionType), "missing handler for %s", actionType)
	}

	assert.False(t, reg.HasAction(models.ActionType("teleport")))
}

func TestCreateAction_ValidConfig(t *testing.T) {
	reg := defaultRegistry(t)

	config, _ := json.Marshal(map[string]string{"to": "a@b.co", "subject": "hi"})
	handler, err := reg.CreateAction(&models.Action{
		ID:     "a-1",
		Type:   models.ActionSendEmail,
		Config: config,
	})

	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestCreateAction_SchemaViolationRejected(t *testing.T) {
	reg := defaultRegistry(t)

	// subject is required by the send_email schema.
	config, _ := json.Marshal(map[string]string{"to": "a@b.co"})
	_, err := reg.CreateAction(&models.Action{
		ID:     "a-1",
		Type:   models.ActionSendEmail,
		Config: config,
	})

	require.ErrorIs(t, err, models.ErrInvalidAction)
}

func TestCreateAction_UnknownTypeRejected(t *testing.T) {
	reg := defaultRegistry(t)

	_, err := reg.CreateAction(&models.Action{ID: "a-1", Type: models.ActionType("teleport")})

	require.Error(t, err)
}

func TestValidateActionConfig(t *testing.T) {
	testCases := []struct {
		name       string
		actionType models.ActionType
		config     string
		valid      bool
	}{
		{
			name:       "webhook with url",
			actionType: models.ActionWebhook,
			config:     `{"url": "https://hooks.example.com/x"}`,
			valid:      true,
		},
		{
			name:       "webhook missing url",
			actionType: models.ActionWebhook,
			config:     `{"event": "x"}`,
			valid:      false,
		},
		{
			name:       "webhook max_attempts above cap",
			actionType: models.ActionWebhook,
			config:     `{"url": "https://h.example.com", "max_attempts": 50}`,
			valid:      false,
		},
		{
			name:       "escalate empty config allowed",
			actionType: models.ActionEscalate,
			config:     "",
			valid:      true,
		},
		{
			name:       "task requires title",
			actionType: models.ActionCreateTask,
			config:     `{"assignee": "role:support"}`,
			valid:      false,
		},
		{
			name:       "update_field requires field",
			actionType: models.ActionUpdateField,
			config:     `{"value": "x"}`,
			valid:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateActionConfig(tc.actionType, json.RawMessage(tc.config))

			if tc.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, models.ErrInvalidAction)
			}
		})
	}
}
