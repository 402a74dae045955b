package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/persistence"
)

func sampleWorkflow(id string) *models.Workflow {
	return &models.Workflow{
		ID:   id,
		Name: "Sample Workflow",
		Steps: []*models.Step{
			{ID: "notify", Type: models.StepTypeAction, ActionType: models.ActionTypeNotification, Config: map[string]any{"message": "hi"}},
		},
		Connections: []*models.Connection{},
	}
}

func TestPersistence_SaveAndFetchWorkflow(t *testing.T) {
	p := NewPersistence()

	require.NoError(t, p.SaveWorkflow(t.Context(), sampleWorkflow("wf-1")))

	fetched, err := p.WorkflowByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Sample Workflow", fetched.Name)
	require.Len(t, fetched.Steps, 1)

	all, err := p.Workflows(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPersistence_SaveWorkflow_RequiresID(t *testing.T) {
	p := NewPersistence()

	err := p.SaveWorkflow(t.Context(), &models.Workflow{Name: "No ID"})
	assert.ErrorIs(t, err, persistence.ErrMissingWorkflowID)
}

func TestPersistence_WorkflowByID_NotFound(t *testing.T) {
	p := NewPersistence()

	_, err := p.WorkflowByID(t.Context(), "ghost")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPersistence_DeleteWorkflow_Idempotent(t *testing.T) {
	p := NewPersistence()

	require.NoError(t, p.SaveWorkflow(t.Context(), sampleWorkflow("wf-1")))
	require.NoError(t, p.DeleteWorkflow(t.Context(), "wf-1"))

	_, err := p.WorkflowByID(t.Context(), "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	// Deleting again is not an error.
	assert.NoError(t, p.DeleteWorkflow(t.Context(), "wf-1"))
	assert.NoError(t, p.DeleteWorkflow(t.Context(), "never-existed"))
}

func TestPersistence_StoredCopiesAreIsolated(t *testing.T) {
	p := NewPersistence()

	original := sampleWorkflow("wf-1")
	require.NoError(t, p.SaveWorkflow(t.Context(), original))

	original.Name = "Mutated After Save"
	original.Steps[0].Name = "mutated"

	fetched, err := p.WorkflowByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Sample Workflow", fetched.Name)
	assert.Empty(t, fetched.Steps[0].Name)

	// Mutating a fetched copy does not leak back into the store either.
	fetched.Name = "Another Mutation"

	again, err := p.WorkflowByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Sample Workflow", again.Name)
}

func TestPersistence_Executions(t *testing.T) {
	p := NewPersistence()

	older := models.NewExecution("wf-1", nil)
	past := time.Now().UTC().Add(-time.Hour)
	older.StartedAt = &past
	older.Status = models.ExecutionStatusCompleted

	newer := models.NewExecution("wf-1", nil)
	now := time.Now().UTC()
	newer.StartedAt = &now
	newer.Status = models.ExecutionStatusFailed

	require.NoError(t, p.SaveExecution(t.Context(), older))
	require.NoError(t, p.SaveExecution(t.Context(), newer))

	executions, err := p.ExecutionsByWorkflowID(t.Context(), "wf-1")
	require.NoError(t, err)
	require.Len(t, executions, 2)
	assert.Equal(t, newer.ID, executions[0].ID)
	assert.Equal(t, older.ID, executions[1].ID)

	// Saving the same execution id again upserts instead of duplicating.
	newer.Status = models.ExecutionStatusCompleted
	require.NoError(t, p.SaveExecution(t.Context(), newer))

	executions, err = p.ExecutionsByWorkflowID(t.Context(), "wf-1")
	require.NoError(t, err)
	require.Len(t, executions, 2)
	assert.Equal(t, models.ExecutionStatusCompleted, executions[0].Status)
}

func TestPersistence_StoredExecutionsAreIsolated(t *testing.T) {
	p := NewPersistence()

	payload := map[string]any{"email": "user@example.com"}
	execution := models.NewExecution("wf-1", payload)
	require.NoError(t, p.SaveExecution(t.Context(), execution))

	// Mutating the payload after recording must not rewrite history.
	payload["email"] = "attacker@example.com"

	stored, err := p.ExecutionsByWorkflowID(t.Context(), "wf-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "user@example.com", stored[0].TriggerData["email"])

	// Nor does mutating a fetched record leak back into the store.
	stored[0].TriggerData["email"] = "another@example.com"

	again, err := p.ExecutionsByWorkflowID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", again[0].TriggerData["email"])
}

func TestPersistence_SaveExecution_RequiresID(t *testing.T) {
	p := NewPersistence()

	err := p.SaveExecution(t.Context(), &models.Execution{WorkflowID: "wf-1"})
	assert.ErrorIs(t, err, persistence.ErrMissingExecutionID)
}

func TestPersistence_ExecutionsSurviveWorkflowDeletion(t *testing.T) {
	p := NewPersistence()

	require.NoError(t, p.SaveWorkflow(t.Context(), sampleWorkflow("wf-1")))
	require.NoError(t, p.SaveExecution(t.Context(), models.NewExecution("wf-1", nil)))
	require.NoError(t, p.DeleteWorkflow(t.Context(), "wf-1"))

	executions, err := p.ExecutionsByWorkflowID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Len(t, executions, 1)
}
