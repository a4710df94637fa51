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

// EntityRepository handles the entity snapshots, users, and tasks the action
// handlers touch.
type EntityRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewEntityRepository(db *sql.DB, logger *slog.Logger) *EntityRepository {
	return &EntityRepository{db: db, logger: logger}
}

func (r *EntityRepository) ByID(ctx context.Context, entityType, entityID string) (map[string]any, error) {
	var data []byte

	err := r.db.QueryRowContext(ctx,
		"SELECT data FROM entities WHERE entity_type = $1 AND id = $2",
		entityType, entityID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrEntityNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query entity %s/%s: %w", entityType, entityID, err)
	}

	entity := make(map[string]any)
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("failed to decode entity %s/%s: %w", entityType, entityID, err)
	}

	return entity, nil
}

func (r *EntityRepository) UpdateField(ctx context.Context, entityType, entityID, field string, value any) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode field value: %w", err)
	}

	query := `
		UPDATE entities
		SET data = jsonb_set(data, ARRAY[$3], $4::jsonb, true), updated_at = NOW()
		WHERE entity_type = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query, entityType, entityID, field, valueJSON)
	if err != nil {
		return fmt.Errorf("failed to update entity %s/%s: %w", entityType, entityID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of entity %s/%s: %w", entityType, entityID, err)
	}

	if affected == 0 {
		return persistence.ErrEntityNotFound
	}

	return nil
}

func (r *EntityRepository) UsersByRole(ctx context.Context, role string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, role FROM users WHERE role = $1 ORDER BY id",
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role %q: %w", role, err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	users := make([]*models.User, 0)

	for rows.Next() {
		var user models.User

		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (r *EntityRepository) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, entity_type, entity_id, assignee_id, status, due_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.EntityType,
		task.EntityID,
		task.AssigneeID,
		task.Status,
		task.DueAt,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task %s: %w", task.ID, err)
	}

	return nil
}
