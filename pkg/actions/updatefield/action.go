// Package updatefield implements the update_field action, mutating one field
// on the triggering entity through the store's narrow entity mutator.
package updatefield

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/template"
)

// supportedEntityTypes is the set of entity types the store exposes a
// mutator for. Other types are logged and skipped rather than failed.
var supportedEntityTypes = map[string]struct{}{
	"quote":          {},
	"invoice":        {},
	"sales_order":    {},
	"purchase_order": {},
	"vendor":         {},
}

// Supported reports whether entity-field updates exist for the given type.
func Supported(entityType string) bool {
	_, ok := supportedEntityTypes[entityType]

	return ok
}

type Action struct {
	config *models.UpdateFieldConfig
	store  persistence.Persistence
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (string, error) {
	if !Supported(executionCtx.EntityType) {
		logger.Warn("Entity type does not support field updates, skipping",
			"entity_type", executionCtx.EntityType, "field", a.config.Field)

		return fmt.Sprintf("Entity type %s does not support field updates, skipped", executionCtx.EntityType), nil
	}

	value := template.Interpolate(a.config.Value, executionCtx.Entity())

	err := a.store.UpdateEntityField(ctx, executionCtx.EntityType, executionCtx.EntityID, a.config.Field, value)
	if err != nil {
		return "", fmt.Errorf("failed to update %s.%s: %w", executionCtx.EntityType, a.config.Field, err)
	}

	return fmt.Sprintf("Set %s to %q on %s %s", a.config.Field, value, executionCtx.EntityType, executionCtx.EntityID), nil
}
