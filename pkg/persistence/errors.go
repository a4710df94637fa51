package persistence

import "errors"

var (
	ErrWorkflowNotFound  = errors.New("workflow not found")
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrExecutionNotFound = errors.New("execution not found")
	ErrEntityNotFound    = errors.New("entity not found")
)
