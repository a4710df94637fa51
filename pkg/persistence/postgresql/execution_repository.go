package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
)

// ExecutionRepository handles the engine-owned execution audit records.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

func (r *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	logJSON, err := marshalStepLog(execution.Log)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO executions (id, workflow_id, entity_type, entity_id, status, triggered_by, triggered_at, completed_at, execution_log, error_message, execution_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.EntityType,
		execution.EntityID,
		execution.Status,
		execution.TriggeredBy,
		execution.TriggeredAt,
		execution.CompletedAt,
		logJSON,
		execution.ErrorMsg,
		execution.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to create execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) Update(ctx context.Context, execution *models.Execution) error {
	logJSON, err := marshalStepLog(execution.Log)
	if err != nil {
		return err
	}

	query := `
		UPDATE executions SET
			status = $2,
			completed_at = $3,
			execution_log = $4,
			error_message = $5,
			execution_time_ms = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		execution.ID,
		execution.Status,
		execution.CompletedAt,
		logJSON,
		execution.ErrorMsg,
		execution.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to update execution %s: %w", execution.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of execution %s: %w", execution.ID, err)
	}

	if affected == 0 {
		return persistence.ErrExecutionNotFound
	}

	return nil
}

func (r *ExecutionRepository) ByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `
		SELECT
			id
		  , workflow_id
		  , entity_type
		  , entity_id
		  , status
		  , triggered_by
		  , triggered_at
		  , completed_at
		  , execution_log
		  , error_message
		  , execution_time_ms
		FROM executions
		WHERE id = $1
	`

	var (
		execution models.Execution
		logJSON   []byte
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&execution.ID,
		&execution.WorkflowID,
		&execution.EntityType,
		&execution.EntityID,
		&execution.Status,
		&execution.TriggeredBy,
		&execution.TriggeredAt,
		&execution.CompletedAt,
		&logJSON,
		&execution.ErrorMsg,
		&execution.DurationMS,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrExecutionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	if len(logJSON) > 0 {
		if err := json.Unmarshal(logJSON, &execution.Log); err != nil {
			return nil, fmt.Errorf("failed to decode execution log: %w", err)
		}
	}

	return &execution, nil
}

func marshalStepLog(log []models.StepRecord) (any, error) {
	if len(log) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(log)
	if err != nil {
		return nil, fmt.Errorf("failed to encode execution log: %w", err)
	}

	return data, nil
}
