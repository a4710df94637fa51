// Package models defines the core domain models for the rule-driven automation engine.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"    // Editable, never fires
	WorkflowStatusActive   WorkflowStatus = "active"   // Evaluated on every matching event
	WorkflowStatusInactive WorkflowStatus = "inactive" // Retained but never fires
)

// TriggerLogic is the combinator applied across a workflow's active triggers.
type TriggerLogic string

const (
	TriggerLogicAnd TriggerLogic = "AND"
	TriggerLogicOr  TriggerLogic = "OR"
)

// Workflow is a named automation rule bound to exactly one entity type.
type Workflow struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"          validate:"required,min=3"`
	Description  string         `json:"description,omitempty"`
	EntityType   string         `json:"entity_type"   validate:"required"`
	Status       WorkflowStatus `json:"status"        validate:"required,oneof=draft active inactive"`
	Priority     int            `json:"priority"`
	TriggerLogic TriggerLogic   `json:"trigger_logic,omitempty" validate:"omitempty,oneof=AND OR"`
	IsSystem     bool           `json:"is_system"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// EffectiveTriggerLogic returns the combinator to use, defaulting to AND when absent.
func (w *Workflow) EffectiveTriggerLogic() TriggerLogic {
	if w.TriggerLogic == TriggerLogicOr {
		return TriggerLogicOr
	}

	return TriggerLogicAnd
}

// IsActive reports whether the workflow is eligible to fire.
func (w *Workflow) IsActive() bool {
	return w.Status == WorkflowStatusActive
}
