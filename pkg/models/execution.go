package models

import "time"

// ExecutionStatus is the lifecycle state of one workflow firing.
type ExecutionStatus string

const (
	ExecutionPending            ExecutionStatus = "pending"
	ExecutionRunning            ExecutionStatus = "running"
	ExecutionCompleted          ExecutionStatus = "completed"
	ExecutionFailed             ExecutionStatus = "failed"
	ExecutionPartiallyCompleted ExecutionStatus = "partially_completed"
)

// StepStatus is the outcome of a single action within an execution.
type StepStatus string

const (
	StepSuccess  StepStatus = "success"
	StepSkipped  StepStatus = "skipped"
	StepFailed   StepStatus = "failed"
	StepDeferred StepStatus = "deferred" // Queued for delayed execution
)

// StepRecord is one entry of an execution's audit log.
type StepRecord struct {
	ActionID   string     `json:"action_id"`
	ActionType ActionType `json:"action_type"`
	Status     StepStatus `json:"status"`
	Details    string     `json:"details,omitempty"`
	Error      string     `json:"error,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Execution is the audit record of one firing of one workflow against one
// entity instance. Rows are created and mutated only by the engine.
type Execution struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflow_id"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	Status      ExecutionStatus `json:"status"`
	TriggeredBy string          `json:"triggered_by"`
	TriggeredAt time.Time       `json:"triggered_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Log         []StepRecord    `json:"execution_log,omitempty"`
	ErrorMsg    string          `json:"error_message,omitempty"`
	DurationMS  int64           `json:"execution_time_ms"`
}

// DeriveStatus computes the terminal status from a step log: failed steps
// alongside successful ones yield partially_completed, failures alone yield
// failed, anything else completes.
func DeriveStatus(log []StepRecord) ExecutionStatus {
	var succeeded, failed bool

	for _, step := range log {
		switch step.Status {
		case StepSuccess, StepDeferred:
			succeeded = true
		case StepFailed:
			failed = true
		case StepSkipped:
		}
	}

	switch {
	case failed && succeeded:
		return ExecutionPartiallyCompleted
	case failed:
		return ExecutionFailed
	default:
		return ExecutionCompleted
	}
}
