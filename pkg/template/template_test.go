package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate_ResolvesEntityFields(t *testing.T) {
	entity := map[string]any{
		"quote_number": "Q-1001",
		"total":        1500.0,
		"client": map[string]any{
			"name": "Acme Corp",
		},
	}

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain field",
			input:    "Quote {{quote_number}} ready",
			expected: "Quote Q-1001 ready",
		},
		{
			name:     "nested field",
			input:    "Dear {{client.name}},",
			expected: "Dear Acme Corp,",
		},
		{
			name:     "entity prefix style",
			input:    "Quote {{entity.quote_number}}",
			expected: "Quote Q-1001",
		},
		{
			name:     "whole float renders without decimal point",
			input:    "Total: {{total}}",
			expected: "Total: 1500",
		},
		{
			name:     "multiple tokens",
			input:    "{{quote_number}}: {{total}}",
			expected: "Q-1001: 1500",
		},
		{
			name:     "no tokens passes through",
			input:    "static text",
			expected: "static text",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Interpolate(tc.input, entity))
		})
	}
}

func TestInterpolate_UnresolvedTokenRendersEmpty(t *testing.T) {
	entity := map[string]any{"status": "approved"}

	assert.Equal(t, "Status:  done", Interpolate("Status: {{missing_field}} done", entity))
	assert.Equal(t, "", Interpolate("{{nope}}", nil))
}

func TestInterpolate_SnakeCaseFallsBackToCamelCase(t *testing.T) {
	entity := map[string]any{
		"quoteNumber": "Q-2002",
		"client": map[string]any{
			"displayName": "Globex",
		},
	}

	assert.Equal(t, "Q-2002", Interpolate("{{quote_number}}", entity))
	assert.Equal(t, "Globex", Interpolate("{{client.display_name}}", entity))
}

func TestInterpolateMap_InterpolatesEveryValue(t *testing.T) {
	entity := map[string]any{"id": "inv-1", "amount": 42.5}

	out := InterpolateMap(map[string]string{
		"invoice": "{{id}}",
		"amount":  "{{amount}}",
		"static":  "fixed",
	}, entity)

	assert.Equal(t, map[string]string{
		"invoice": "inv-1",
		"amount":  "42.5",
		"static":  "fixed",
	}, out)

	assert.Nil(t, InterpolateMap(nil, entity))
}

func TestResolve_LiteralPathWinsOverFallbacks(t *testing.T) {
	entity := map[string]any{
		"due_date": "literal",
		"dueDate":  "camel",
	}

	value, ok := Resolve("due_date", entity)

	assert.True(t, ok)
	assert.Equal(t, "literal", value)
}

func TestStringify_Formats(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: ""},
		{name: "string", value: "x", expected: "x"},
		{name: "bool", value: true, expected: "true"},
		{name: "whole float", value: 10000.0, expected: "10000"},
		{name: "fractional float", value: 99.95, expected: "99.95"},
		{name: "int", value: 7, expected: "7"},
		{
			name:     "time renders RFC3339",
			value:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			expected: "2026-03-01T12:00:00Z",
		},
		{
			name:     "map renders as JSON",
			value:    map[string]any{"a": 1.0},
			expected: `{"a":1}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Stringify(tc.value))
		})
	}
}
