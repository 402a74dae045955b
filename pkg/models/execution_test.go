package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecution(t *testing.T) {
	triggerData := map[string]any{"email": "user@example.com"}
	execution := NewExecution("wf-1", triggerData)

	assert.NotEmpty(t, execution.ID)
	assert.Contains(t, execution.ID, "exec-")
	assert.Equal(t, "wf-1", execution.WorkflowID)
	assert.Equal(t, ExecutionStatusPending, execution.Status)
	assert.Equal(t, triggerData, execution.TriggerData)
	assert.Nil(t, execution.StartedAt)
	assert.Nil(t, execution.CompletedAt)
	assert.False(t, execution.IsTerminal())
}

func TestExecution_Lifecycle(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		execution := NewExecution("wf-1", nil)

		execution.Start()
		assert.Equal(t, ExecutionStatusRunning, execution.Status)
		require.NotNil(t, execution.StartedAt)
		assert.False(t, execution.IsTerminal())

		execution.Complete()
		assert.Equal(t, ExecutionStatusCompleted, execution.Status)
		require.NotNil(t, execution.CompletedAt)
		assert.Empty(t, execution.Error)
		assert.True(t, execution.IsTerminal())
	})

	t.Run("fail records the reason", func(t *testing.T) {
		execution := NewExecution("wf-1", nil)

		execution.Start()
		execution.Fail("step %q failed: %s", "send_email", "no recipient")

		assert.Equal(t, ExecutionStatusFailed, execution.Status)
		require.NotNil(t, execution.CompletedAt)
		assert.Equal(t, `step "send_email" failed: no recipient`, execution.Error)
		assert.True(t, execution.IsTerminal())
	})
}
