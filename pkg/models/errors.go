package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkflow is returned when workflow validation fails.
	ErrInvalidWorkflow = errors.New("invalid workflow configuration")

	// ErrInvalidTrigger is returned when a trigger's conditions cannot be decoded.
	ErrInvalidTrigger = errors.New("invalid trigger configuration")

	// ErrUnknownTriggerType distinguishes an unrecognized trigger type from a
	// malformed payload, so evaluation can degrade it to "no match" instead of
	// aborting the workflow.
	ErrUnknownTriggerType = fmt.Errorf("%w: unknown trigger type", ErrInvalidTrigger)

	// ErrInvalidAction is returned when an action's config cannot be decoded.
	ErrInvalidAction = errors.New("invalid action configuration")

	// ErrInvalidSchedule is returned when schedule validation fails.
	ErrInvalidSchedule = errors.New("invalid schedule configuration")
)
