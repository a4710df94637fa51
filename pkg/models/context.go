package models

// EventType classifies the application event that asked for workflow evaluation.
type EventType string

const (
	EventCreated         EventType = "created"
	EventStatusChange    EventType = "status_change"
	EventFieldChange     EventType = "field_change"
	EventAmountThreshold EventType = "amount_threshold"
	EventDateBased       EventType = "date_based"
	EventManual          EventType = "manual"
	EventTimeBased       EventType = "time_based"
)

// EventContext carries everything the engine needs to evaluate triggers and
// interpolate action templates for one triggering event. The caller owns the
// accuracy of the entity snapshot and old/new values; EventID feeds the
// at-most-once guard, one firing per workflow per event.
type EventContext struct {
	EventID     string         `json:"event_id,omitempty"`
	EventType   EventType      `json:"event_type"`
	Entity      map[string]any `json:"entity,omitempty"`
	OldValue    any            `json:"old_value,omitempty"`
	NewValue    any            `json:"new_value,omitempty"`
	TriggeredBy string         `json:"triggered_by,omitempty"`
}
