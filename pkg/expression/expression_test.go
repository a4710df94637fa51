package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalBool_Comparisons(t *testing.T) {
	env := map[string]any{
		"total":  15000.0,
		"status": "approved",
	}

	testCases := []struct {
		name       string
		expression string
		expected   bool
	}{
		{name: "numeric greater than", expression: "total > 10000", expected: true},
		{name: "numeric less than", expression: "total < 10000", expected: false},
		{name: "string equality", expression: `status == "approved"`, expected: true},
		{name: "logical and", expression: `total > 10000 && status == "approved"`, expected: true},
		{name: "logical or", expression: `total > 100000 || status == "approved"`, expected: true},
		{name: "interpolated literal", expression: "15000 > 10000", expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := EvalBool(tc.expression, env)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestEvalBool_UndefinedVariablesAllowed(t *testing.T) {
	result, err := EvalBool("missing == nil", map[string]any{})

	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvalBool_NilEnv(t *testing.T) {
	result, err := EvalBool("1 < 2", nil)

	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvalBool_NonBooleanResultFails(t *testing.T) {
	_, err := EvalBool("1 + 2", map[string]any{})

	require.Error(t, err)
}

func TestEvalBool_InvalidSyntaxFails(t *testing.T) {
	_, err := EvalBool("total >", map[string]any{"total": 1.0})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile")
}
