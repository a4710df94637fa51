package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/salesbridge/automation/pkg/models"
)

// actionConfigSchemas holds the JSON schema for each action type's config
// payload. Validation happens before decode so authors get schema-level
// messages instead of unmarshal errors.
var actionConfigSchemas = map[models.ActionType]string{
	models.ActionSendEmail: `{
		"type": "object",
		"properties": {
			"to":      {"type": "string", "minLength": 1},
			"subject": {"type": "string", "minLength": 1},
			"body":    {"type": "string"}
		},
		"required": ["to", "subject"]
	}`,
	models.ActionCreateNotification: `{
		"type": "object",
		"properties": {
			"user_id": {"type": "string", "minLength": 1},
			"title":   {"type": "string", "minLength": 1},
			"message": {"type": "string"}
		},
		"required": ["user_id", "title"]
	}`,
	models.ActionUpdateField: `{
		"type": "object",
		"properties": {
			"field": {"type": "string", "minLength": 1},
			"value": {"type": "string"}
		},
		"required": ["field"]
	}`,
	models.ActionAssignUser: `{
		"type": "object",
		"properties": {
			"user_id": {"type": "string", "minLength": 1},
			"field":   {"type": "string"}
		},
		"required": ["user_id"]
	}`,
	models.ActionCreateActivityLog: `{
		"type": "object",
		"properties": {
			"action":  {"type": "string", "minLength": 1},
			"details": {"type": "string"},
			"user_id": {"type": "string"}
		},
		"required": ["action"]
	}`,
	models.ActionWebhook: `{
		"type": "object",
		"properties": {
			"url":             {"type": "string", "format": "uri"},
			"event":           {"type": "string"},
			"payload":         {"type": "object", "additionalProperties": {"type": "string"}},
			"timeout_seconds": {"type": "integer", "minimum": 1},
			"max_attempts":    {"type": "integer", "minimum": 1, "maximum": 10}
		},
		"required": ["url"]
	}`,
	models.ActionEscalate: `{
		"type": "object",
		"properties": {
			"field":  {"type": "string"},
			"value":  {"type": "string"},
			"notify": {"type": "string"}
		}
	}`,
	models.ActionCreateTask: `{
		"type": "object",
		"properties": {
			"title":       {"type": "string", "minLength": 1},
			"description": {"type": "string"},
			"assignee":    {"type": "string"},
			"due_in_days": {"type": "integer", "minimum": 0}
		},
		"required": ["title"]
	}`,
}

// ValidateActionConfig checks a raw action config against the schema for its
// action type. Unknown types are rejected; an empty payload validates as {}.
func ValidateActionConfig(actionType models.ActionType, config json.RawMessage) error {
	schema, ok := actionConfigSchemas[actionType]
	if !ok {
		return fmt.Errorf("%w: unknown action type %q", models.ErrInvalidAction, actionType)
	}

	if len(config) == 0 {
		config = json.RawMessage("{}")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(config),
	)
	if err != nil {
		return fmt.Errorf("%w: action type %q: %w", models.ErrInvalidAction, actionType, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			details = append(details, resultErr.String())
		}

		return fmt.Errorf("%w: action type %q: %s", models.ErrInvalidAction, actionType, strings.Join(details, "; "))
	}

	return nil
}
