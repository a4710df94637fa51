package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssignee(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected Assignee
	}{
		{
			name:     "explicit role prefix",
			raw:      "role:sales_manager",
			expected: Assignee{Kind: AssigneeRole, Value: "sales_manager"},
		},
		{
			name:     "explicit user prefix",
			raw:      "user:u-42",
			expected: Assignee{Kind: AssigneeUser, Value: "u-42"},
		},
		{
			name:     "bare known role",
			raw:      "accountant",
			expected: Assignee{Kind: AssigneeRole, Value: "accountant"},
		},
		{
			name:     "bare unknown string is a user id",
			raw:      "u-42",
			expected: Assignee{Kind: AssigneeUser, Value: "u-42"},
		},
		{
			name:     "user prefix overrides known role name",
			raw:      "user:manager",
			expected: Assignee{Kind: AssigneeUser, Value: "manager"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := ParseAssignee(tc.raw)

			assert.Equal(t, tc.expected, parsed)
			assert.Equal(t, tc.expected.Kind == AssigneeRole, parsed.IsRole())
		})
	}
}
