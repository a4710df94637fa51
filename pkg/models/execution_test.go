package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	testCases := []struct {
		name     string
		statuses []StepStatus
		expected ExecutionStatus
	}{
		{
			name:     "all success",
			statuses: []StepStatus{StepSuccess, StepSuccess},
			expected: ExecutionCompleted,
		},
		{
			name:     "empty log completes",
			statuses: nil,
			expected: ExecutionCompleted,
		},
		{
			name:     "all skipped completes",
			statuses: []StepStatus{StepSkipped, StepSkipped},
			expected: ExecutionCompleted,
		},
		{
			name:     "mixed success and failure",
			statuses: []StepStatus{StepSuccess, StepFailed, StepSuccess},
			expected: ExecutionPartiallyCompleted,
		},
		{
			name:     "only failures",
			statuses: []StepStatus{StepFailed, StepFailed},
			expected: ExecutionFailed,
		},
		{
			name:     "failure plus skipped still failed",
			statuses: []StepStatus{StepFailed, StepSkipped},
			expected: ExecutionFailed,
		},
		{
			name:     "deferred counts as progress",
			statuses: []StepStatus{StepDeferred, StepFailed},
			expected: ExecutionPartiallyCompleted,
		},
		{
			name:     "deferred alone completes",
			statuses: []StepStatus{StepDeferred},
			expected: ExecutionCompleted,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log := make([]StepRecord, 0, len(tc.statuses))
			for _, status := range tc.statuses {
				log = append(log, StepRecord{Status: status})
			}

			assert.Equal(t, tc.expected, DeriveStatus(log))
		})
	}
}
