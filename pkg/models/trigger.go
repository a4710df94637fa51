package models

import (
	"encoding/json"
	"fmt"
)

// TriggerType identifies the condition family a trigger evaluates.
type TriggerType string

const (
	TriggerStatusChange    TriggerType = "status_change"
	TriggerAmountThreshold TriggerType = "amount_threshold"
	TriggerFieldChange     TriggerType = "field_change"
	TriggerDateBased       TriggerType = "date_based"
	TriggerCreated         TriggerType = "created"
	TriggerManual          TriggerType = "manual"
	TriggerTimeBased       TriggerType = "time_based"
)

// CompareOperator is the comparison applied by threshold and field-change triggers.
type CompareOperator string

const (
	OperatorEquals             CompareOperator = "equals"
	OperatorNotEquals          CompareOperator = "not_equals"
	OperatorGreaterThan        CompareOperator = "greater_than"
	OperatorLessThan           CompareOperator = "less_than"
	OperatorGreaterThanOrEqual CompareOperator = "greater_than_or_equal"
	OperatorLessThanOrEqual    CompareOperator = "less_than_or_equal"
	OperatorContains           CompareOperator = "contains"
)

// DateOperator relates an entity date field to the current day.
type DateOperator string

const (
	DateDaysBefore DateOperator = "days_before"
	DateDaysAfter  DateOperator = "days_after"
	DateIsOverdue  DateOperator = "is_overdue"
	DateIsToday    DateOperator = "is_today"
)

// Trigger is one condition attached to a workflow. Conditions carries the
// type-specific payload and is decoded once at load time via Decode.
type Trigger struct {
	ID         string          `json:"id"`
	WorkflowID string          `json:"workflow_id" validate:"required"`
	Type       TriggerType     `json:"trigger_type" validate:"required"`
	Conditions json.RawMessage `json:"conditions,omitempty"`
	IsActive   bool            `json:"is_active"`
}

// StatusChangeConditions narrows a status_change trigger. Empty From or To
// matches any old or new value respectively.
type StatusChangeConditions struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// AmountThresholdConditions compares a numeric entity field against a value.
type AmountThresholdConditions struct {
	Field    string          `json:"field"    validate:"required"`
	Operator CompareOperator `json:"operator" validate:"required,oneof=greater_than less_than equals greater_than_or_equal less_than_or_equal"`
	Value    float64         `json:"value"`
}

// FieldChangeConditions compares an entity field after a field_change event.
type FieldChangeConditions struct {
	Field    string          `json:"field"    validate:"required"`
	Operator CompareOperator `json:"operator" validate:"required,oneof=equals not_equals greater_than less_than contains"`
	Value    any             `json:"value"`
}

// DateConditions relates a date field on the entity to today.
type DateConditions struct {
	Field    string       `json:"field"    validate:"required"`
	Operator DateOperator `json:"operator" validate:"required,oneof=days_before days_after is_overdue is_today"`
	Days     int          `json:"days,omitempty"`
}

// TriggerConditions is the decoded, type-tagged payload of a trigger.
// Exactly one field is set, matching the trigger type; created, manual and
// time_based triggers carry no payload.
type TriggerConditions struct {
	StatusChange    *StatusChangeConditions
	AmountThreshold *AmountThresholdConditions
	FieldChange     *FieldChangeConditions
	Date            *DateConditions
}

// Decode parses the raw conditions payload into its typed variant.
func (t *Trigger) Decode() (*TriggerConditions, error) {
	decoded := &TriggerConditions{}

	switch t.Type {
	case TriggerStatusChange:
		decoded.StatusChange = &StatusChangeConditions{}
		if err := t.unmarshalConditions(decoded.StatusChange); err != nil {
			return nil, err
		}
	case TriggerAmountThreshold:
		decoded.AmountThreshold = &AmountThresholdConditions{}
		if err := t.unmarshalConditions(decoded.AmountThreshold); err != nil {
			return nil, err
		}

		if decoded.AmountThreshold.Field == "" {
			return nil, fmt.Errorf("%w: amount_threshold trigger %s has no field", ErrInvalidTrigger, t.ID)
		}
	case TriggerFieldChange:
		decoded.FieldChange = &FieldChangeConditions{}
		if err := t.unmarshalConditions(decoded.FieldChange); err != nil {
			return nil, err
		}

		if decoded.FieldChange.Field == "" {
			return nil, fmt.Errorf("%w: field_change trigger %s has no field", ErrInvalidTrigger, t.ID)
		}
	case TriggerDateBased:
		decoded.Date = &DateConditions{}
		if err := t.unmarshalConditions(decoded.Date); err != nil {
			return nil, err
		}

		if decoded.Date.Field == "" {
			return nil, fmt.Errorf("%w: date_based trigger %s has no field", ErrInvalidTrigger, t.ID)
		}
	case TriggerCreated, TriggerManual, TriggerTimeBased:
		// No payload.
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownTriggerType, t.Type)
	}

	return decoded, nil
}

func (t *Trigger) unmarshalConditions(target any) error {
	if len(t.Conditions) == 0 {
		return nil
	}

	if err := json.Unmarshal(t.Conditions, target); err != nil {
		return fmt.Errorf("%w: trigger %s conditions: %w", ErrInvalidTrigger, t.ID, err)
	}

	return nil
}
