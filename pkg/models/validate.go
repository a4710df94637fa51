package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the workflow's own fields.
func (w *Workflow) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWorkflow, err)
	}

	return nil
}

// ValidateWorkflowConfig is the authoring-time check for a complete workflow
// definition: the workflow itself, its triggers (at least one active, each
// with a decodable payload), its actions, and its optional schedule. The
// engine tolerates malformed definitions at run time; this surfaces them to
// authors instead.
func ValidateWorkflowConfig(workflow *Workflow, triggers []*Trigger, actions []*Action, schedule *Schedule) error {
	var errs []error

	if err := workflow.Validate(); err != nil {
		errs = append(errs, err)
	}

	activeTriggers := 0

	for _, trigger := range triggers {
		if trigger.IsActive {
			activeTriggers++
		}

		decoded, err := trigger.Decode()
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if err := validateConditionPayload(decoded); err != nil {
			errs = append(errs, fmt.Errorf("trigger %s: %w", trigger.ID, err))
		}
	}

	if activeTriggers == 0 {
		errs = append(errs, fmt.Errorf("%w: workflow %s has no active triggers and will never fire", ErrInvalidWorkflow, workflow.ID))
	}

	for _, action := range actions {
		decoded, err := action.Decode()
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if err := validateActionPayload(decoded); err != nil {
			errs = append(errs, fmt.Errorf("%w: action %s: %w", ErrInvalidAction, action.ID, err))
		}
	}

	if schedule != nil {
		if err := schedule.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func validateConditionPayload(decoded *TriggerConditions) error {
	var payloads []any

	if decoded.AmountThreshold != nil {
		payloads = append(payloads, decoded.AmountThreshold)
	}

	if decoded.FieldChange != nil {
		payloads = append(payloads, decoded.FieldChange)
	}

	if decoded.Date != nil {
		payloads = append(payloads, decoded.Date)
	}

	for _, payload := range payloads {
		if err := validate.Struct(payload); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTrigger, err)
		}
	}

	return nil
}

func validateActionPayload(decoded *ActionConfig) error {
	var payloads []any

	if decoded.Email != nil {
		payloads = append(payloads, decoded.Email)
	}

	if decoded.Notification != nil {
		payloads = append(payloads, decoded.Notification)
	}

	if decoded.UpdateField != nil {
		payloads = append(payloads, decoded.UpdateField)
	}

	if decoded.AssignUser != nil {
		payloads = append(payloads, decoded.AssignUser)
	}

	if decoded.ActivityLog != nil {
		payloads = append(payloads, decoded.ActivityLog)
	}

	if decoded.Webhook != nil {
		payloads = append(payloads, decoded.Webhook)
	}

	if decoded.Task != nil {
		payloads = append(payloads, decoded.Task)
	}

	for _, payload := range payloads {
		if err := validate.Struct(payload); err != nil {
			return err
		}
	}

	return nil
}
