package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
)

// DefinitionRepository handles workflow, trigger, action, and schedule rows.
// Definitions are authored by the surrounding application and mostly read here.
type DefinitionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDefinitionRepository(db *sql.DB, logger *slog.Logger) *DefinitionRepository {
	return &DefinitionRepository{db: db, logger: logger}
}

func (r *DefinitionRepository) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , entity_type
		  , status
		  , priority
		  , trigger_logic
		  , is_system
		  , created_at
		  , updated_at
		FROM workflows
		WHERE id = $1
	`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	return workflow, nil
}

func (r *DefinitionRepository) ActiveWorkflowsByEntityType(ctx context.Context, entityType string) ([]*models.Workflow, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , entity_type
		  , status
		  , priority
		  , trigger_logic
		  , is_system
		  , created_at
		  , updated_at
		FROM workflows
		WHERE entity_type = $1 AND status = $2
		ORDER BY priority DESC, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, entityType, models.WorkflowStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer r.closeRows(ctx, rows)

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

func (r *DefinitionRepository) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	query := `
		INSERT INTO workflows (id, name, description, entity_type, status, priority, trigger_logic, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			entity_type = EXCLUDED.entity_type,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			trigger_logic = EXCLUDED.trigger_logic,
			is_system = EXCLUDED.is_system,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.Name,
		workflow.Description,
		workflow.EntityType,
		workflow.Status,
		workflow.Priority,
		workflow.TriggerLogic,
		workflow.IsSystem,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflow.ID, err)
	}

	return nil
}

func (r *DefinitionRepository) DeleteWorkflow(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

func (r *DefinitionRepository) TriggersByWorkflow(ctx context.Context, workflowID string) ([]*models.Trigger, error) {
	query := `
		SELECT
			id
		  , workflow_id
		  , trigger_type
		  , conditions
		  , is_active
		FROM triggers
		WHERE workflow_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query triggers: %w", err)
	}

	defer r.closeRows(ctx, rows)

	triggers := make([]*models.Trigger, 0)

	for rows.Next() {
		var (
			trigger    models.Trigger
			conditions []byte
		)

		err := rows.Scan(&trigger.ID, &trigger.WorkflowID, &trigger.Type, &conditions, &trigger.IsActive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trigger: %w", err)
		}

		trigger.Conditions = json.RawMessage(conditions)
		triggers = append(triggers, &trigger)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating triggers: %w", err)
	}

	return triggers, nil
}

func (r *DefinitionRepository) SaveTrigger(ctx context.Context, trigger *models.Trigger) error {
	query := `
		INSERT INTO triggers (id, workflow_id, trigger_type, conditions, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			workflow_id = EXCLUDED.workflow_id,
			trigger_type = EXCLUDED.trigger_type,
			conditions = EXCLUDED.conditions,
			is_active = EXCLUDED.is_active
	`

	_, err := r.db.ExecContext(ctx, query,
		trigger.ID,
		trigger.WorkflowID,
		trigger.Type,
		nullableJSON(trigger.Conditions),
		trigger.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to save trigger %s: %w", trigger.ID, err)
	}

	return nil
}

func (r *DefinitionRepository) DeleteTrigger(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM triggers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete trigger %s: %w", id, err)
	}

	return nil
}

func (r *DefinitionRepository) ActionsByWorkflow(ctx context.Context, workflowID string) ([]*models.Action, error) {
	query := `
		SELECT
			id
		  , workflow_id
		  , action_type
		  , action_config
		  , execution_order
		  , delay_minutes
		  , condition_expression
		  , is_active
		FROM actions
		WHERE workflow_id = $1
		ORDER BY execution_order
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}

	defer r.closeRows(ctx, rows)

	actions := make([]*models.Action, 0)

	for rows.Next() {
		var (
			action models.Action
			config []byte
		)

		err := rows.Scan(
			&action.ID,
			&action.WorkflowID,
			&action.Type,
			&config,
			&action.ExecutionOrder,
			&action.DelayMinutes,
			&action.ConditionExpression,
			&action.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}

		action.Config = json.RawMessage(config)
		actions = append(actions, &action)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}

	return actions, nil
}

func (r *DefinitionRepository) SaveAction(ctx context.Context, action *models.Action) error {
	query := `
		INSERT INTO actions (id, workflow_id, action_type, action_config, execution_order, delay_minutes, condition_expression, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			workflow_id = EXCLUDED.workflow_id,
			action_type = EXCLUDED.action_type,
			action_config = EXCLUDED.action_config,
			execution_order = EXCLUDED.execution_order,
			delay_minutes = EXCLUDED.delay_minutes,
			condition_expression = EXCLUDED.condition_expression,
			is_active = EXCLUDED.is_active
	`

	_, err := r.db.ExecContext(ctx, query,
		action.ID,
		action.WorkflowID,
		action.Type,
		nullableJSON(action.Config),
		action.ExecutionOrder,
		action.DelayMinutes,
		action.ConditionExpression,
		action.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to save action %s: %w", action.ID, err)
	}

	return nil
}

func (r *DefinitionRepository) DeleteAction(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM actions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete action %s: %w", id, err)
	}

	return nil
}

func (r *DefinitionRepository) ActiveSchedules(ctx context.Context) ([]*models.Schedule, error) {
	query := `
		SELECT
			id
		  , workflow_id
		  , cron_expression
		  , timezone
		  , is_active
		  , last_run_at
		  , next_run_at
		FROM schedules
		WHERE is_active
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}

	defer r.closeRows(ctx, rows)

	schedules := make([]*models.Schedule, 0)

	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}

		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return schedules, nil
}

func (r *DefinitionRepository) ScheduleByWorkflow(ctx context.Context, workflowID string) (*models.Schedule, error) {
	query := `
		SELECT
			id
		  , workflow_id
		  , cron_expression
		  , timezone
		  , is_active
		  , last_run_at
		  , next_run_at
		FROM schedules
		WHERE workflow_id = $1
	`

	schedule, err := scanSchedule(r.db.QueryRowContext(ctx, query, workflowID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrScheduleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}

	return schedule, nil
}

func (r *DefinitionRepository) SaveSchedule(ctx context.Context, schedule *models.Schedule) error {
	query := `
		INSERT INTO schedules (id, workflow_id, cron_expression, timezone, is_active, last_run_at, next_run_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			workflow_id = EXCLUDED.workflow_id,
			cron_expression = EXCLUDED.cron_expression,
			timezone = EXCLUDED.timezone,
			is_active = EXCLUDED.is_active,
			last_run_at = EXCLUDED.last_run_at,
			next_run_at = EXCLUDED.next_run_at
	`

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.WorkflowID,
		schedule.CronExpression,
		schedule.Timezone,
		schedule.IsActive,
		schedule.LastRunAt,
		schedule.NextRunAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule %s: %w", schedule.ID, err)
	}

	return nil
}

func (r *DefinitionRepository) closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var workflow models.Workflow

	err := row.Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.Description,
		&workflow.EntityType,
		&workflow.Status,
		&workflow.Priority,
		&workflow.TriggerLogic,
		&workflow.IsSystem,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &workflow, nil
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var schedule models.Schedule

	err := row.Scan(
		&schedule.ID,
		&schedule.WorkflowID,
		&schedule.CronExpression,
		&schedule.Timezone,
		&schedule.IsActive,
		&schedule.LastRunAt,
		&schedule.NextRunAt,
	)
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

// nullableJSON maps an empty raw message to SQL NULL instead of invalid JSONB.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}

	return []byte(raw)
}
