package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesbridge/automation/pkg/models"
)

func emailAction(id string, order int, subject string) *models.Action {
	config, _ := json.Marshal(map[string]string{
		"to":      "sales@example.com",
		"subject": subject,
	})

	return &models.Action{
		ID:             id,
		WorkflowID:     "wf-1",
		Type:           models.ActionSendEmail,
		Config:         config,
		ExecutionOrder: order,
		IsActive:       true,
	}
}

func executionContext() models.ExecutionContext {
	return models.ExecutionContext{
		ExecutionID: "exec-1",
		WorkflowID:  "wf-1",
		EntityType:  "quote",
		EntityID:    "q-1",
		Event: &models.EventContext{
			EventType: models.EventStatusChange,
			Entity:    map[string]any{"total": 15000.0, "status": "approved"},
		},
	}
}

func TestRun_ExecutesInExecutionOrder(t *testing.T) {
	h := newTestHarness(t)
	executor := NewExecutor(h.reg, h.queue, h.logger)

	// Deliberately shuffled input.
	actions := []*models.Action{
		emailAction("a-third", 2, "third"),
		emailAction("a-first", 0, "first"),
		emailAction("a-second", 1, "second"),
	}

	stepLog := executor.Run(context.Background(), actions, executionContext())

	require.Len(t, stepLog, 3)
	assert.Equal(t, "a-first", stepLog[0].ActionID)
	assert.Equal(t, "a-second", stepLog[1].ActionID)
	assert.Equal(t, "a-third", stepLog[2].ActionID)

	subjects := make([]string, 0, 3)
	for _, email := range h.email.emails() {
		subjects = append(subjects, email.Subject)
	}

	assert.Equal(t, []string{"first", "second", "third"}, subjects)
}

func TestRun_InactiveActionSkipped(t *testing.T) {
	h := newTestHarness(t)
	executor := NewExecutor(h.reg, h.queue, h.logger)

	inactive := emailAction("a-1", 0, "never sent")
	inactive.IsActive = false

	stepLog := executor.Run(context.Background(), []*models.Action{inactive}, executionContext())

	require.Len(t, stepLog, 1)
	assert.Equal(t, models.StepSkipped, stepLog[0].Status)
	assert.Equal(t, "Action is inactive", stepLog[0].Details)
	assert.Empty(t, h.email.emails())
}

func TestRun_FailureDoesNotAbortRemainingActions(t *testing.T) {
	h := newTestHarness(t)
	executor := NewExecutor(h.reg, h.queue, h.logger)

	// update_field against an entity that does not exist fails; the email
	// after it must still run.
	failingConfig, _ := json.Marshal(map[string]string{"field": "status", "value": "escalated"})
	failing := &models.Action{
		ID:             "a-fail",
		WorkflowID:     "wf-1",
		Type:           models.ActionUpdateField,
		Config:         failingConfig,
		ExecutionOrder: 0,
		IsActive:       true,
	}

	stepLog := executor.Run(context.Background(), []*models.Action{failing, emailAction("a-ok", 1, "still sent")}, executionContext())

	require.Len(t, stepLog, 2)
	assert.Equal(t, models.StepFailed, stepLog[0].Status)
	assert.NotEmpty(t, stepLog[0].Error)
	assert.Equal(t, models.StepSuccess, stepLog[1].Status)
	require.Len(t, h.email.emails(), 1)
}

func TestRun_GuardExpression(t *testing.T) {
	h := newTestHarness(t)
	executor := NewExecutor(h.reg, h.queue, h.logger)

	testCases := []struct {
		name           string
		guard          string
		expectedStatus models.StepStatus
		expectedDetail string
	}{
		{
			name:           "guard true runs",
			guard:          "total > 10000",
			expectedStatus: models.StepSuccess,
		},
		{
			name:           "guard false skips",
			guard:          "total > 100000",
			expectedStatus: models.StepSkipped,
			expectedDetail: "Condition not met",
		},
		{
			name:           "interpolated guard",
			guard:          `"{{status}}" == "approved"`,
			expectedStatus: models.StepSuccess,
		},
		{
			name:           "broken guard fails the step",
			guard:          "total >",
			expectedStatus: models.StepFailed,
		},
	}

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			action := emailAction(fmt.Sprintf("a-%d", i), 0, tc.name)
			action.ConditionExpression = tc.guard

			stepLog := executor.Run(context.Background(), []*models.Action{action}, executionContext())

			require.Len(t, stepLog, 1)
			assert.Equal(t, tc.expectedStatus, stepLog[0].Status)

			if tc.expectedDetail != "" {
				assert.Equal(t, tc.expectedDetail, stepLog[0].Details)
			}
		})
	}
}

func TestRun_DelayedActionDeferredNotExecuted(t *testing.T) {
	h := newTestHarness(t)
	executor := NewExecutor(h.reg, h.queue, h.logger)

	delayed := emailAction("a-1", 0, "later")
	delayed.DelayMinutes = 30

	stepLog := executor.Run(context.Background(), []*models.Action{delayed}, executionContext())

	require.Len(t, stepLog, 1)
	assert.Equal(t, models.StepDeferred, stepLog[0].Status)
	assert.Contains(t, stepLog[0].Details, "Deferred by 30 minute(s)")
	assert.Empty(t, h.email.emails(), "deferred action must not run inline")
}

func TestRun_UnknownActionTypeFails(t *testing.T) {
	h := newTestHarness(t)
	executor := NewExecutor(h.reg, h.queue, h.logger)

	unknown := &models.Action{
		ID:             "a-1",
		WorkflowID:     "wf-1",
		Type:           models.ActionType("teleport"),
		ExecutionOrder: 0,
		IsActive:       true,
	}

	stepLog := executor.Run(context.Background(), []*models.Action{unknown}, executionContext())

	require.Len(t, stepLog, 1)
	assert.Equal(t, models.StepFailed, stepLog[0].Status)
}
