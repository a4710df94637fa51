package models

import (
	"encoding/json"
	"fmt"
)

// ActionType identifies the handler an action dispatches to.
type ActionType string

const (
	ActionSendEmail          ActionType = "send_email"
	ActionCreateNotification ActionType = "create_notification"
	ActionUpdateField        ActionType = "update_field"
	ActionAssignUser         ActionType = "assign_user"
	ActionCreateTask         ActionType = "create_task"
	ActionEscalate           ActionType = "escalate"
	ActionWebhook            ActionType = "webhook"
	ActionCreateActivityLog  ActionType = "create_activity_log"
)

// Action is one executable step attached to a workflow. Config carries the
// type-specific payload; actions run in ascending ExecutionOrder.
type Action struct {
	ID                  string          `json:"id"`
	WorkflowID          string          `json:"workflow_id"  validate:"required"`
	Type                ActionType      `json:"action_type"  validate:"required"`
	Config              json.RawMessage `json:"action_config,omitempty"`
	ExecutionOrder      int             `json:"execution_order"`
	DelayMinutes        int             `json:"delay_minutes,omitempty"`
	ConditionExpression string          `json:"condition_expression,omitempty"`
	IsActive            bool            `json:"is_active"`
}

// EmailConfig configures a send_email action. All fields support templates.
type EmailConfig struct {
	To      string `json:"to"      validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body"`
}

// NotificationConfig configures a create_notification action. UserID accepts
// a user id or a role name; role names fan out to every user holding the role.
type NotificationConfig struct {
	UserID  string `json:"user_id" validate:"required"`
	Title   string `json:"title"   validate:"required"`
	Message string `json:"message"`
}

// UpdateFieldConfig configures an update_field action.
type UpdateFieldConfig struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// AssignUserConfig configures an assign_user action. Field defaults to
// "assigned_to"; a role name resolves to the first user holding it.
type AssignUserConfig struct {
	UserID string `json:"user_id" validate:"required"`
	Field  string `json:"field,omitempty"`
}

// ActivityLogConfig configures a create_activity_log action.
type ActivityLogConfig struct {
	Action  string `json:"action" validate:"required"`
	Details string `json:"details"`
	UserID  string `json:"user_id,omitempty"`
}

// WebhookConfig configures a webhook action: an HTTP POST with a JSON body.
type WebhookConfig struct {
	URL            string            `json:"url" validate:"required,url"`
	Event          string            `json:"event,omitempty"`
	Payload        map[string]string `json:"payload,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
	MaxAttempts    int               `json:"max_attempts,omitempty"`
}

// EscalateConfig configures an escalate action: bump a priority field and
// notify an escalation contact.
type EscalateConfig struct {
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Notify string `json:"notify,omitempty"`
}

// TaskConfig configures a create_task action.
type TaskConfig struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	DueInDays   int    `json:"due_in_days,omitempty"`
}

// ActionConfig is the decoded, type-tagged payload of an action.
type ActionConfig struct {
	Email        *EmailConfig
	Notification *NotificationConfig
	UpdateField  *UpdateFieldConfig
	AssignUser   *AssignUserConfig
	ActivityLog  *ActivityLogConfig
	Webhook      *WebhookConfig
	Escalate     *EscalateConfig
	Task         *TaskConfig
}

// Decode parses the raw action config into its typed variant.
func (a *Action) Decode() (*ActionConfig, error) {
	decoded := &ActionConfig{}

	var target any

	switch a.Type {
	case ActionSendEmail:
		decoded.Email = &EmailConfig{}
		target = decoded.Email
	case ActionCreateNotification:
		decoded.Notification = &NotificationConfig{}
		target = decoded.Notification
	case ActionUpdateField:
		decoded.UpdateField = &UpdateFieldConfig{}
		target = decoded.UpdateField
	case ActionAssignUser:
		decoded.AssignUser = &AssignUserConfig{}
		target = decoded.AssignUser
	case ActionCreateActivityLog:
		decoded.ActivityLog = &ActivityLogConfig{}
		target = decoded.ActivityLog
	case ActionWebhook:
		decoded.Webhook = &WebhookConfig{}
		target = decoded.Webhook
	case ActionEscalate:
		decoded.Escalate = &EscalateConfig{}
		target = decoded.Escalate
	case ActionCreateTask:
		decoded.Task = &TaskConfig{}
		target = decoded.Task
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, a.Type)
	}

	if len(a.Config) == 0 {
		return decoded, nil
	}

	if err := json.Unmarshal(a.Config, target); err != nil {
		return nil, fmt.Errorf("%w: action %s config: %w", ErrInvalidAction, a.ID, err)
	}

	return decoded, nil
}
