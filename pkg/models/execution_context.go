package models

// ExecutionContext is the per-firing view handed to action handlers: which
// execution they run under and the event that caused it.
type ExecutionContext struct {
	ExecutionID string        `json:"execution_id"`
	WorkflowID  string        `json:"workflow_id"`
	EntityType  string        `json:"entity_type"`
	EntityID    string        `json:"entity_id"`
	Event       *EventContext `json:"event"`
}

// Entity returns the entity bag of the triggering event, never nil.
func (c *ExecutionContext) Entity() map[string]any {
	if c.Event == nil || c.Event.Entity == nil {
		return map[string]any{}
	}

	return c.Event.Entity
}
