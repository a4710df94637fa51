// Package persistence defines the data storage abstraction the engine
// consumes: workflow definitions are authored by the surrounding application
// and only read here, execution records are created and owned by the engine.
package persistence

import (
	"context"

	"github.com/salesbridge/automation/pkg/models"
)

type Persistence interface {
	// Workflow definitions (read by the engine, authored externally).
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	ActiveWorkflowsByEntityType(ctx context.Context, entityType string) ([]*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error

	TriggersByWorkflow(ctx context.Context, workflowID string) ([]*models.Trigger, error)
	SaveTrigger(ctx context.Context, trigger *models.Trigger) error
	DeleteTrigger(ctx context.Context, id string) error

	ActionsByWorkflow(ctx context.Context, workflowID string) ([]*models.Action, error)
	SaveAction(ctx context.Context, action *models.Action) error
	DeleteAction(ctx context.Context, id string) error

	// Schedules. At most one per workflow.
	ActiveSchedules(ctx context.Context) ([]*models.Schedule, error)
	ScheduleByWorkflow(ctx context.Context, workflowID string) (*models.Schedule, error)
	SaveSchedule(ctx context.Context, schedule *models.Schedule) error
	UpdateSchedule(ctx context.Context, schedule *models.Schedule) error

	// Execution records, owned by the engine. Never deleted here.
	CreateExecution(ctx context.Context, execution *models.Execution) error
	UpdateExecution(ctx context.Context, execution *models.Execution) error
	ExecutionByID(ctx context.Context, id string) (*models.Execution, error)

	// Narrow entity access for update_field / assign_user / escalate handlers.
	EntityByID(ctx context.Context, entityType, entityID string) (map[string]any, error)
	UpdateEntityField(ctx context.Context, entityType, entityID, field string, value any) error

	UsersByRole(ctx context.Context, role string) ([]*models.User, error)
	CreateTask(ctx context.Context, task *models.Task) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
