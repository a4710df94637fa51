// Package postgresql provides the PostgreSQL persistence implementation.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // postgres driver

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db             *sql.DB
	logger         *slog.Logger
	definitionRepo *DefinitionRepository
	executionRepo  *ExecutionRepository
	entityRepo     *EntityRepository
}

// NewPersistence connects, migrates, and returns the PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:             database,
		logger:         logger,
		definitionRepo: NewDefinitionRepository(database, logger),
		executionRepo:  NewExecutionRepository(database, logger),
		entityRepo:     NewEntityRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Workflow definitions

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return p.definitionRepo.WorkflowByID(ctx, id)
}

func (p *Persistence) ActiveWorkflowsByEntityType(ctx context.Context, entityType string) ([]*models.Workflow, error) {
	return p.definitionRepo.ActiveWorkflowsByEntityType(ctx, entityType)
}

func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	return p.definitionRepo.SaveWorkflow(ctx, workflow)
}

func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.definitionRepo.DeleteWorkflow(ctx, id)
}

func (p *Persistence) TriggersByWorkflow(ctx context.Context, workflowID string) ([]*models.Trigger, error) {
	return p.definitionRepo.TriggersByWorkflow(ctx, workflowID)
}

func (p *Persistence) SaveTrigger(ctx context.Context, trigger *models.Trigger) error {
	return p.definitionRepo.SaveTrigger(ctx, trigger)
}

func (p *Persistence) DeleteTrigger(ctx context.Context, id string) error {
	return p.definitionRepo.DeleteTrigger(ctx, id)
}

func (p *Persistence) ActionsByWorkflow(ctx context.Context, workflowID string) ([]*models.Action, error) {
	return p.definitionRepo.ActionsByWorkflow(ctx, workflowID)
}

func (p *Persistence) SaveAction(ctx context.Context, action *models.Action) error {
	return p.definitionRepo.SaveAction(ctx, action)
}

func (p *Persistence) DeleteAction(ctx context.Context, id string) error {
	return p.definitionRepo.DeleteAction(ctx, id)
}

// Schedules

func (p *Persistence) ActiveSchedules(ctx context.Context) ([]*models.Schedule, error) {
	return p.definitionRepo.ActiveSchedules(ctx)
}

func (p *Persistence) ScheduleByWorkflow(ctx context.Context, workflowID string) (*models.Schedule, error) {
	return p.definitionRepo.ScheduleByWorkflow(ctx, workflowID)
}

func (p *Persistence) SaveSchedule(ctx context.Context, schedule *models.Schedule) error {
	return p.definitionRepo.SaveSchedule(ctx, schedule)
}

func (p *Persistence) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	return p.definitionRepo.SaveSchedule(ctx, schedule)
}

// Executions

func (p *Persistence) CreateExecution(ctx context.Context, execution *models.Execution) error {
	return p.executionRepo.Create(ctx, execution)
}

func (p *Persistence) UpdateExecution(ctx context.Context, execution *models.Execution) error {
	return p.executionRepo.Update(ctx, execution)
}

func (p *Persistence) ExecutionByID(ctx context.Context, id string) (*models.Execution, error) {
	return p.executionRepo.ByID(ctx, id)
}

// Entities, users, tasks

func (p *Persistence) EntityByID(ctx context.Context, entityType, entityID string) (map[string]any, error) {
	return p.entityRepo.ByID(ctx, entityType, entityID)
}

func (p *Persistence) UpdateEntityField(ctx context.Context, entityType, entityID, field string, value any) error {
	return p.entityRepo.UpdateField(ctx, entityType, entityID, field, value)
}

func (p *Persistence) UsersByRole(ctx context.Context, role string) ([]*models.User, error) {
	return p.entityRepo.UsersByRole(ctx, role)
}

func (p *Persistence) CreateTask(ctx context.Context, task *models.Task) error {
	return p.entityRepo.CreateTask(ctx, task)
}
