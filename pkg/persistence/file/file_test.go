package file

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
)

func newStore(t *testing.T) *Persistence {
	t.Helper()

	return NewPersistence(t.TempDir())
}

func TestWorkflowRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	workflow := &models.Workflow{
		ID:         "wf-1",
		Name:       "Quote follow-up",
		EntityType: "quote",
		Status:     models.WorkflowStatusActive,
		Priority:   5,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	require.NoError(t, store.SaveWorkflow(ctx, workflow))

	loaded, err := store.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, workflow.Name, loaded.Name)
	assert.Equal(t, workflow.Priority, loaded.Priority)

	missing, err := store.WorkflowByID(ctx, "wf-none")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestActiveWorkflowsByEntityType_Filters(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	save := func(id, entityType string, status models.WorkflowStatus) {
		require.NoError(t, store.SaveWorkflow(ctx, &models.Workflow{
			ID:         id,
			Name:       "Workflow " + id,
			EntityType: entityType,
			Status:     status,
		}))
	}

	save("wf-1", "quote", models.WorkflowStatusActive)
	save("wf-2", "quote", models.WorkflowStatusDraft)
	save("wf-3", "quote", models.WorkflowStatusInactive)
	save("wf-4", "invoice", models.WorkflowStatusActive)

	workflows, err := store.ActiveWorkflowsByEntityType(ctx, "quote")
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, "wf-1", workflows[0].ID)
}

func TestTriggersAndActionsByWorkflow(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	conditions, _ := json.Marshal(map[string]string{"to": "approved"})
	require.NoError(t, store.SaveTrigger(ctx, &models.Trigger{
		ID:         "t-1",
		WorkflowID: "wf-1",
		Type:       models.TriggerStatusChange,
		Conditions: conditions,
		IsActive:   true,
	}))
	require.NoError(t, store.SaveTrigger(ctx, &models.Trigger{
		ID:         "t-2",
		WorkflowID: "wf-other",
		Type:       models.TriggerCreated,
		IsActive:   true,
	}))

	triggers, err := store.TriggersByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "t-1", triggers[0].ID)

	require.NoError(t, store.SaveAction(ctx, &models.Action{ID: "a-2", WorkflowID: "wf-1", Type: models.ActionSendEmail, ExecutionOrder: 2}))
	require.NoError(t, store.SaveAction(ctx, &models.Action{ID: "a-0", WorkflowID: "wf-1", Type: models.ActionSendEmail, ExecutionOrder: 0}))
	require.NoError(t, store.SaveAction(ctx, &models.Action{ID: "a-1", WorkflowID: "wf-1", Type: models.ActionSendEmail, ExecutionOrder: 1}))

	actions, err := store.ActionsByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, "a-0", actions[0].ID)
	assert.Equal(t, "a-1", actions[1].ID)
	assert.Equal(t, "a-2", actions[2].ID)

	require.NoError(t, store.DeleteAction(ctx, "a-1"))

	actions, err = store.ActionsByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	assert.Len(t, actions, 2)
}

func TestScheduleLookup(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	next := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSchedule(ctx, &models.Schedule{
		ID:             "s-1",
		WorkflowID:     "wf-1",
		CronExpression: "0 8 * * *",
		IsActive:       true,
		NextRunAt:      &next,
	}))
	require.NoError(t, store.SaveSchedule(ctx, &models.Schedule{
		ID:             "s-2",
		WorkflowID:     "wf-2",
		CronExpression: "0 9 * * *",
		IsActive:       false,
	}))

	active, err := store.ActiveSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "s-1", active[0].ID)

	schedule, err := store.ScheduleByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", schedule.ID)

	_, err = store.ScheduleByWorkflow(ctx, "wf-none")
	require.ErrorIs(t, err, persistence.ErrScheduleNotFound)
}

func TestExecutionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	execution := &models.Execution{
		ID:          "exec-1",
		WorkflowID:  "wf-1",
		EntityType:  "quote",
		EntityID:    "q-1",
		Status:      models.ExecutionRunning,
		TriggeredAt: time.Now().UTC(),
	}

	require.NoError(t, store.CreateExecution(ctx, execution))

	execution.Status = models.ExecutionCompleted
	execution.Log = []models.StepRecord{
		{ActionID: "a-1", ActionType: models.ActionSendEmail, Status: models.StepSuccess},
	}
	require.NoError(t, store.UpdateExecution(ctx, execution))

	loaded, err := store.ExecutionByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionCompleted, loaded.Status)
	require.Len(t, loaded.Log, 1)
	assert.Equal(t, models.StepSuccess, loaded.Log[0].Status)

	_, err = store.ExecutionByID(ctx, "exec-none")
	require.ErrorIs(t, err, persistence.ErrExecutionNotFound)

	err = store.UpdateExecution(ctx, &models.Execution{ID: "exec-none"})
	require.ErrorIs(t, err, persistence.ErrExecutionNotFound)
}

func TestEntityFieldUpdates(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.SaveEntity(ctx, "invoice", "inv-1", map[string]any{
		"status": "sent",
		"total":  120.5,
	}))

	require.NoError(t, store.UpdateEntityField(ctx, "invoice", "inv-1", "status", "paid"))

	entity, err := store.EntityByID(ctx, "invoice", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "paid", entity["status"])
	assert.InDelta(t, 120.5, entity["total"], 0.001)

	err = store.UpdateEntityField(ctx, "invoice", "inv-none", "status", "paid")
	require.ErrorIs(t, err, persistence.ErrEntityNotFound)

	_, err = store.EntityByID(ctx, "invoice", "inv-none")
	require.ErrorIs(t, err, persistence.ErrEntityNotFound)
}

func TestUsersByRole(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.SaveUser(ctx, &models.User{ID: "u-2", Role: "manager"}))
	require.NoError(t, store.SaveUser(ctx, &models.User{ID: "u-1", Role: "manager"}))
	require.NoError(t, store.SaveUser(ctx, &models.User{ID: "u-3", Role: "support"}))

	managers, err := store.UsersByRole(ctx, "manager")
	require.NoError(t, err)
	require.Len(t, managers, 2)
	assert.Equal(t, "u-1", managers[0].ID, "stable id order")

	nobody, err := store.UsersByRole(ctx, "ceo")
	require.NoError(t, err)
	assert.Empty(t, nobody)
}
