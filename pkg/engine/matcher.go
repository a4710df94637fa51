package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/salesbridge/automation/pkg/models"
)

// Matcher decides whether a workflow's triggers are satisfied by an event.
// Evaluation is pure: identical definitions and context always produce the
// same answer.
type Matcher struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewMatcher(logger *slog.Logger) *Matcher {
	return &Matcher{
		logger: logger.With("module", "trigger_matcher"),
		now:    time.Now,
	}
}

// NewMatcherAt pins the matcher's clock, for date_based evaluation in tests.
func NewMatcherAt(logger *slog.Logger, now func() time.Time) *Matcher {
	m := NewMatcher(logger)
	m.now = now

	return m
}

// ShouldFire combines the results of all active triggers under the
// workflow's AND/OR logic. Fails closed: no active triggers means no fire.
func (m *Matcher) ShouldFire(workflow *models.Workflow, triggers []*models.Trigger, event *models.EventContext) (bool, error) {
	active := make([]*models.Trigger, 0, len(triggers))

	for _, trigger := range triggers {
		if trigger.IsActive {
			active = append(active, trigger)
		}
	}

	if len(active) == 0 {
		return false, nil
	}

	logic := workflow.EffectiveTriggerLogic()

	for _, trigger := range active {
		matched, err := m.evaluate(trigger, event)
		if err != nil {
			return false, fmt.Errorf("trigger %s: %w", trigger.ID, err)
		}

		if logic == models.TriggerLogicAnd && !matched {
			return false, nil
		}

		if logic == models.TriggerLogicOr && matched {
			return true, nil
		}
	}

	// AND saw no false, OR saw no true.
	return logic == models.TriggerLogicAnd, nil
}

func (m *Matcher) evaluate(trigger *models.Trigger, event *models.EventContext) (bool, error) {
	conditions, err := trigger.Decode()
	if err != nil {
		// An unrecognized type is tolerated as "no match" so a sibling
		// trigger can still fire the workflow; malformed payloads stay errors.
		if errors.Is(err, models.ErrUnknownTriggerType) {
			m.logger.Warn("Unknown trigger type, treating as non-matching",
				"trigger_id", trigger.ID,
				"trigger_type", trigger.Type,
			)

			return false, nil
		}

		return false, err
	}

	switch trigger.Type {
	case models.TriggerStatusChange:
		return evaluateStatusChange(conditions.StatusChange, event), nil
	case models.TriggerAmountThreshold:
		return evaluateAmountThreshold(conditions.AmountThreshold, event), nil
	case models.TriggerFieldChange:
		return evaluateFieldChange(conditions.FieldChange, event), nil
	case models.TriggerDateBased:
		return m.evaluateDate(conditions.Date, event)
	case models.TriggerCreated:
		return event.EventType == models.EventCreated, nil
	case models.TriggerManual:
		return event.EventType == models.EventManual, nil
	case models.TriggerTimeBased:
		// Only the scheduler emits time_based events; entity events never match.
		return event.EventType == models.EventTimeBased, nil
	default:
		// Decode already rejected every other type.
		return false, nil
	}
}

func evaluateStatusChange(conditions *models.StatusChangeConditions, event *models.EventContext) bool {
	if event.EventType != models.EventStatusChange {
		return false
	}

	oldValue := stringValue(event.OldValue)
	newValue := stringValue(event.NewValue)

	switch {
	case conditions.From != "" && conditions.To != "":
		return oldValue == conditions.From && newValue == conditions.To
	case conditions.To != "":
		return newValue == conditions.To
	case conditions.From != "":
		return oldValue == conditions.From
	default:
		return oldValue != newValue
	}
}

func evaluateAmountThreshold(conditions *models.AmountThresholdConditions, event *models.EventContext) bool {
	var actual float64
	if event.Entity != nil {
		actual = numericValue(event.Entity[conditions.Field])
	}

	switch conditions.Operator {
	case models.OperatorGreaterThan:
		return actual > conditions.Value
	case models.OperatorLessThan:
		return actual < conditions.Value
	case models.OperatorEquals:
		return actual == conditions.Value
	case models.OperatorGreaterThanOrEqual:
		return actual >= conditions.Value
	case models.OperatorLessThanOrEqual:
		return actual <= conditions.Value
	default:
		return false
	}
}

func evaluateFieldChange(conditions *models.FieldChangeConditions, event *models.EventContext) bool {
	if event.EventType != models.EventFieldChange {
		return false
	}

	var actual any
	if event.Entity != nil {
		actual = event.Entity[conditions.Field]
	}

	switch conditions.Operator {
	case models.OperatorEquals:
		return stringValue(actual) == stringValue(conditions.Value)
	case models.OperatorNotEquals:
		return stringValue(actual) != stringValue(conditions.Value)
	case models.OperatorGreaterThan:
		return numericValue(actual) > numericValue(conditions.Value)
	case models.OperatorLessThan:
		return numericValue(actual) < numericValue(conditions.Value)
	case models.OperatorContains:
		return strings.Contains(stringValue(actual), stringValue(conditions.Value))
	default:
		return false
	}
}

func (m *Matcher) evaluateDate(conditions *models.DateConditions, event *models.EventContext) (bool, error) {
	var raw any
	if event.Entity != nil {
		raw = event.Entity[conditions.Field]
	}

	target, err := parseDate(raw)
	if err != nil {
		return false, fmt.Errorf("field %s: %w", conditions.Field, err)
	}

	diffDays := int(math.Ceil(target.Sub(m.now()).Hours() / 24))

	switch conditions.Operator {
	case models.DateDaysBefore:
		return diffDays == conditions.Days && diffDays > 0, nil
	case models.DateDaysAfter:
		return diffDays == -conditions.Days && diffDays < 0, nil
	case models.DateIsOverdue:
		return diffDays < 0, nil
	case models.DateIsToday:
		return diffDays == 0, nil
	default:
		return false, nil
	}
}

func parseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed, nil
			}
		}

		return time.Time{}, fmt.Errorf("unparsable date %q", v)
	default:
		return time.Time{}, fmt.Errorf("value %v is not a date", value)
	}
}

// stringValue normalizes any comparable value to its string form.
func stringValue(value any) string {
	if value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}

// numericValue coerces a value to float64; missing or non-numeric values
// coerce to 0.
func numericValue(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}

		return parsed
	default:
		return 0
	}
}
