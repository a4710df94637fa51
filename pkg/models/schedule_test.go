package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleNextOccurrence(t *testing.T) {
	schedule := &Schedule{
		ID:             "s-1",
		WorkflowID:     "wf-1",
		CronExpression: "0 9 * * *",
	}

	after := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	next, err := schedule.NextOccurrence(after)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestScheduleNextOccurrence_HonorsTimezone(t *testing.T) {
	schedule := &Schedule{
		ID:             "s-2",
		WorkflowID:     "wf-1",
		CronExpression: "0 9 * * *",
		Timezone:       "America/New_York",
	}

	// 10:00 UTC on 2026-03-02 is 05:00 in New York, so 09:00 local is still ahead.
	after := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	next, err := schedule.NextOccurrence(after)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), next.UTC())
}

func TestScheduleNextOccurrence_InvalidCron(t *testing.T) {
	schedule := &Schedule{ID: "s-3", WorkflowID: "wf-1", CronExpression: "not a cron"}

	_, err := schedule.NextOccurrence(time.Now())

	require.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestScheduleIsDue(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	testCases := []struct {
		name     string
		schedule Schedule
		expected bool
	}{
		{
			name:     "due when next run has elapsed",
			schedule: Schedule{IsActive: true, NextRunAt: &past},
			expected: true,
		},
		{
			name:     "due exactly at next run",
			schedule: Schedule{IsActive: true, NextRunAt: &now},
			expected: true,
		},
		{
			name:     "not due before next run",
			schedule: Schedule{IsActive: true, NextRunAt: &future},
			expected: false,
		},
		{
			name:     "inactive never due",
			schedule: Schedule{IsActive: false, NextRunAt: &past},
			expected: false,
		},
		{
			name:     "no next run never due",
			schedule: Schedule{IsActive: true},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.schedule.IsDue(now))
		})
	}
}

func TestScheduleValidate(t *testing.T) {
	valid := &Schedule{ID: "s-4", WorkflowID: "wf-1", CronExpression: "*/5 * * * *"}
	require.NoError(t, valid.Validate())

	missingWorkflow := &Schedule{ID: "s-5", CronExpression: "* * * * *"}
	require.ErrorIs(t, missingWorkflow.Validate(), ErrInvalidSchedule)

	badTimezone := &Schedule{ID: "s-6", WorkflowID: "wf-1", CronExpression: "* * * * *", Timezone: "Mars/Olympus"}
	require.ErrorIs(t, badTimezone.Validate(), ErrInvalidSchedule)
}
