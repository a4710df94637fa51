package updatefield

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence/file"
)

func updateContext(entityType, entityID string, entity map[string]any) models.ExecutionContext {
	return models.ExecutionContext{
		ExecutionID: "exec-1",
		WorkflowID:  "wf-1",
		EntityType:  entityType,
		EntityID:    entityID,
		Event: &models.EventContext{
			EventType: models.EventStatusChange,
			Entity:    entity,
		},
	}
}

func TestExecute_UpdatesEntityField(t *testing.T) {
	ctx := context.Background()
	store := file.NewPersistence(t.TempDir())

	require.NoError(t, store.SaveEntity(ctx, "quote", "q-1", map[string]any{
		"status": "approved",
		"region": "EMEA",
	}))

	handler, err := NewActionFactory(store).Create(&models.ActionConfig{
		UpdateField: &models.UpdateFieldConfig{Field: "priority", Value: "high-{{region}}"},
	})
	require.NoError(t, err)

	details, err := handler.Execute(ctx, updateContext("quote", "q-1", map[string]any{"region": "EMEA"}), slog.Default())

	require.NoError(t, err)
	assert.Contains(t, details, `Set priority to "high-EMEA"`)

	entity, err := store.EntityByID(ctx, "quote", "q-1")
	require.NoError(t, err)
	assert.Equal(t, "high-EMEA", entity["priority"])
	assert.Equal(t, "approved", entity["status"], "other fields untouched")
}

func TestExecute_UnsupportedEntityTypeSkips(t *testing.T) {
	store := file.NewPersistence(t.TempDir())

	handler, err := NewActionFactory(store).Create(&models.ActionConfig{
		UpdateField: &models.UpdateFieldConfig{Field: "priority", Value: "high"},
	})
	require.NoError(t, err)

	details, err := handler.Execute(context.Background(), updateContext("contact", "c-1", nil), slog.Default())

	require.NoError(t, err)
	assert.Contains(t, details, "does not support field updates")
}

func TestExecute_MissingEntityFails(t *testing.T) {
	store := file.NewPersistence(t.TempDir())

	handler, err := NewActionFactory(store).Create(&models.ActionConfig{
		UpdateField: &models.UpdateFieldConfig{Field: "priority", Value: "high"},
	})
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), updateContext("quote", "q-missing", nil), slog.Default())

	require.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("quote"))
	assert.True(t, Supported("purchase_order"))
	assert.False(t, Supported("contact"))
}
