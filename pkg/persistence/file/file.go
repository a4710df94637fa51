// Package file provides a JSON-file implementation of the persistence
// contract, used for development and tests. Records live one file per row
// under a collection directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
)

type Persistence struct {
	root string
	mu   sync.RWMutex
}

func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Workflows

func (p *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	workflow, err := readJSON[models.Workflow](p.path("workflows", id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	return workflow, err
}

func (p *Persistence) ActiveWorkflowsByEntityType(_ context.Context, entityType string) ([]*models.Workflow, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	workflows, err := listJSON[models.Workflow](p.dir("workflows"))
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Workflow, 0, len(workflows))

	for _, workflow := range workflows {
		if workflow.EntityType == entityType && workflow.IsActive() {
			matched = append(matched, workflow)
		}
	}

	return matched, nil
}

func (p *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeJSON(p.path("workflows", workflow.ID), workflow)
}

func (p *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return removeFile(p.path("workflows", id))
}

// Triggers

func (p *Persistence) TriggersByWorkflow(_ context.Context, workflowID string) ([]*models.Trigger, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	triggers, err := listJSON[models.Trigger](p.dir("triggers"))
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Trigger, 0, len(triggers))

	for _, trigger := range triggers {
		if trigger.WorkflowID == workflowID {
			matched = append(matched, trigger)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return matched, nil
}

func (p *Persistence) SaveTrigger(_ context.Context, trigger *models.Trigger) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeJSON(p.path("triggers", trigger.ID), trigger)
}

func (p *Persistence) DeleteTrigger(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return removeFile(p.path("triggers", id))
}

// Actions

func (p *Persistence) ActionsByWorkflow(_ context.Context, workflowID string) ([]*models.Action, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	actions, err := listJSON[models.Action](p.dir("actions"))
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Action, 0, len(actions))

	for _, action := range actions {
		if action.WorkflowID == workflowID {
			matched = append(matched, action)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ExecutionOrder < matched[j].ExecutionOrder })

	return matched, nil
}

func (p *Persistence) SaveAction(_ context.Context, action *models.Action) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeJSON(p.path("actions", action.ID), action)
}

func (p *Persistence) DeleteAction(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return removeFile(p.path("actions", id))
}

// Schedules

func (p *Persistence) ActiveSchedules(_ context.Context) ([]*models.Schedule, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	schedules, err := listJSON[models.Schedule](p.dir("schedules"))
	if err != nil {
		return nil, err
	}

	active := make([]*models.Schedule, 0, len(schedules))

	for _, schedule := range schedules {
		if schedule.IsActive {
			active = append(active, schedule)
		}
	}

	return active, nil
}

func (p *Persistence) ScheduleByWorkflow(_ context.Context, workflowID string) (*models.Schedule, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	schedules, err := listJSON[models.Schedule](p.dir("schedules"))
	if err != nil {
		return nil, err
	}

	for _, schedule := range schedules {
		if schedule.WorkflowID == workflowID {
			return schedule, nil
		}
	}

	return nil, persistence.ErrScheduleNotFound
}

func (p *Persistence) SaveSchedule(_ context.Context, schedule *models.Schedule) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeJSON(p.path("schedules", schedule.ID), schedule)
}

func (p *Persistence) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	return p.SaveSchedule(ctx, schedule)
}

// Executions

func (p *Persistence) CreateExecution(_ context.Context, execution *models.Execution) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeJSON(p.path("executions", execution.ID), execution)
}

func (p *Persistence) UpdateExecution(_ context.Context, execution *models.Execution) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := os.Stat(p.path("executions", execution.ID)); os.IsNotExist(err) {
		return persistence.ErrExecutionNotFound
	}

	return writeJSON(p.path("executions", execution.ID), execution)
}

func (p *Persistence) ExecutionByID(_ context.Context, id string) (*models.Execution, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	execution, err := readJSON[models.Execution](p.path("executions", id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.ErrExecutionNotFound
	}

	return execution, err
}

// Executions returns every execution record, newest first. Not part of the
// persistence contract; used by tests and the daemon's startup report.
func (p *Persistence) Executions(_ context.Context) ([]*models.Execution, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	executions, err := listJSON[models.Execution](p.dir("executions"))
	if err != nil {
		return nil, err
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].TriggeredAt.After(executions[j].TriggeredAt)
	})

	return executions, nil
}

// Entities

func (p *Persistence) EntityByID(_ context.Context, entityType, entityID string) (map[string]any, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entity, err := readJSON[map[string]any](p.path(filepath.Join("entities", entityType), entityID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.ErrEntityNotFound
	}

	if err != nil {
		return nil, err
	}

	return *entity, nil
}

func (p *Persistence) UpdateEntityField(_ context.Context, entityType, entityID, field string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := p.path(filepath.Join("entities", entityType), entityID)

	entity, err := readJSON[map[string]any](path)
	if errors.Is(err, os.ErrNotExist) {
		return persistence.ErrEntityNotFound
	}

	if err != nil {
		return err
	}

	(*entity)[field] = value

	return writeJSON(path, entity)
}

// SaveEntity stores a full entity bag. Not part of the persistence
// contract; the surrounding application owns entities in production.
func (p *Persistence) SaveEntity(_ context.Context, entityType, entityID string, entity map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeJSON(p.path(filepath.Join("entities", entityType), entityID), entity)
}

// Users

func (p *Persistence) UsersByRole(_ context.Context, role string) ([]*models.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users, err := listJSON[models.User](p.dir("users"))
	if err != nil {
		return nil, err
	}

	matched := make([]*models.User, 0, len(users))

	for _, user := range users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return matched, nil
}

// SaveUser stores a user record for role resolution.
func (p *Persistence) SaveUser(_ context.Context, user *models.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeJSON(p.path("users", user.ID), user)
}

// Tasks

func (p *Persistence) CreateTask(_ context.Context, task *models.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeJSON(p.path("tasks", task.ID), task)
}

// helpers

func (p *Persistence) dir(collection string) string {
	return filepath.Join(p.root, collection)
}

func (p *Persistence) path(collection, id string) string {
	return filepath.Join(p.root, collection, id+".json")
}

func readJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return &value, nil
}

func writeJSON(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func listJSON[T any](dir string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	values := make([]*T, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		value, err := readJSON[T](filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		values = append(values, value)
	}

	return values, nil
}

func removeFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
