package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecutionContext_CopiesTriggerData(t *testing.T) {
	triggerData := map[string]any{"email": "user@example.com"}

	executionCtx := NewExecutionContext("exec-1", "wf-1", triggerData)

	triggerData["email"] = "mutated@example.com"

	assert.Equal(t, "user@example.com", executionCtx.Fields["email"])
}

func TestExecutionContext_SetStepResult(t *testing.T) {
	executionCtx := NewExecutionContext("exec-1", "wf-1", map[string]any{"name": "Ada"})

	executionCtx.SetStepResult("create_record", map[string]any{"recordId": "rec-42"})

	value, ok := executionCtx.Lookup("create_record.recordId")
	require.True(t, ok)
	assert.Equal(t, "rec-42", value)

	// The trigger data is still visible next to the merged output.
	value, ok = executionCtx.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "Ada", value)
}

func TestExecutionContext_Lookup(t *testing.T) {
	executionCtx := NewExecutionContext("exec-1", "wf-1", map[string]any{
		"plain": "value",
		"nested": map[string]any{
			"inner": map[string]any{"leaf": 7},
		},
	})

	tests := []struct {
		name  string
		field string
		want  any
		found bool
	}{
		{"top level", "plain", "value", true},
		{"dotted path", "nested.inner.leaf", 7, true},
		{"missing top level", "absent", nil, false},
		{"missing leaf", "nested.inner.absent", nil, false},
		{"path through non-map", "plain.leaf", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := executionCtx.Lookup(tt.field)
			assert.Equal(t, tt.found, ok)

			if tt.found {
				assert.Equal(t, tt.want, value)
			}
		})
	}
}

func TestExecutionContext_StringValue(t *testing.T) {
	executionCtx := NewExecutionContext("exec-1", "wf-1", map[string]any{
		"count": 3,
		"none":  nil,
	})

	assert.Equal(t, "3", executionCtx.StringValue("count"))
	assert.Equal(t, "", executionCtx.StringValue("missing"))
	assert.Equal(t, "", executionCtx.StringValue("none"))
}
