package models

import (
	"fmt"
	"strings"
)

// ExecutionContext is the ephemeral bag of data flowing through one run. It
// is seeded from the trigger payload and extended with each step's output
// under the step's id. It is never persisted and never shared between
// concurrent executions.
type ExecutionContext struct {
	ID         string
	WorkflowID string
	Fields     map[string]any
}

// NewExecutionContext seeds a context from the trigger payload. The payload
// is copied so that later merges never mutate the caller's map.
func NewExecutionContext(executionID, workflowID string, triggerData map[string]any) *ExecutionContext {
	fields := make(map[string]any, len(triggerData))
	for k, v := range triggerData {
		fields[k] = v
	}

	return &ExecutionContext{
		ID:         executionID,
		WorkflowID: workflowID,
		Fields:     fields,
	}
}

// SetStepResult merges a step's output into the context under the step id,
// making it visible to every subsequent step.
func (c *ExecutionContext) SetStepResult(stepID string, output map[string]any) {
	if c.Fields == nil {
		c.Fields = make(map[string]any)
	}

	c.Fields[stepID] = output
}

// Lookup resolves a field name against the context. Dotted names traverse
// nested maps, so "create_record.recordId" reaches into a step's output.
func (c *ExecutionContext) Lookup(field string) (any, bool) {
	if value, ok := c.Fields[field]; ok {
		return value, true
	}

	parts := strings.Split(field, ".")
	if len(parts) < 2 {
		return nil, false
	}

	var current any = c.Fields

	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// StringValue resolves a field and stringifies it for placeholder
// substitution. Unknown fields substitute to the empty string.
func (c *ExecutionContext) StringValue(field string) string {
	value, ok := c.Lookup(field)
	if !ok || value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}
