package workflow

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowline/flowline/pkg/actions/condition"
	"github.com/flowline/flowline/pkg/actions/delay"
	"github.com/flowline/flowline/pkg/actions/email"
	"github.com/flowline/flowline/pkg/actions/notification"
	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/persistence/memory"
	"github.com/flowline/flowline/pkg/registry"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterAction(email.NewActionFactory(email.NewSlogMailer(slog.Default())))
	reg.RegisterAction(notification.NewActionFactory(notification.NewSlogNotifier(slog.Default())))
	reg.RegisterAction(condition.NewActionFactory())
	reg.RegisterAction(delay.NewActionFactory())

	return NewRepository(memory.NewPersistence(), reg)
}

func validWorkflow() *models.Workflow {
	return &models.Workflow{
		Name:        "Signup Flow",
		Description: "Welcomes new signups",
		Steps: []*models.Step{
			{
				ID:          "on_signup",
				Type:        models.StepTypeTrigger,
				TriggerType: models.TriggerTypeForm,
				Config:      map[string]any{"formId": "signup"},
			},
			{
				ID:         "send_welcome",
				Type:       models.StepTypeAction,
				ActionType: models.ActionTypeEmail,
				Config:     map[string]any{"to": "{{email}}", "subject": "Welcome"},
			},
		},
		Connections: []*models.Connection{
			{From: "on_signup", To: "send_welcome"},
		},
	}
}

func TestRepository_Save_Create(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Save(t.Context(), validWorkflow())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	fetched, err := repo.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Signup Flow", fetched.Name)
}

func TestRepository_Save_UpdatePreservesCreatedAt(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Save(t.Context(), validWorkflow())
	require.NoError(t, err)

	createdAt := created.CreatedAt
	firstUpdatedAt := created.UpdatedAt

	time.Sleep(5 * time.Millisecond)

	update := validWorkflow()
	update.ID = created.ID
	update.Name = "Renamed Flow"

	updated, err := repo.Save(t.Context(), update)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, createdAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(firstUpdatedAt))

	fetched, err := repo.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Flow", fetched.Name)
}

func TestRepository_Save_ValidationFailures(t *testing.T) {
	repo := newTestRepository(t)

	tests := []struct {
		name   string
		mutate func(w *models.Workflow)
	}{
		{
			name:   "name too short",
			mutate: func(w *models.Workflow) { w.Name = "ab" },
		},
		{
			name: "step without id",
			mutate: func(w *models.Workflow) {
				w.Steps[1].ID = ""
				w.Connections = nil
			},
		},
		{
			name: "duplicate step ids",
			mutate: func(w *models.Workflow) {
				w.Steps[1].ID = "on_signup"
				w.Connections = nil
			},
		},
		{
			name: "unknown step type",
			mutate: func(w *models.Workflow) {
				w.Steps[1].Type = models.StepType("gateway")
			},
		},
		{
			name: "trigger config missing required field",
			mutate: func(w *models.Workflow) {
				w.Steps[0].Config = map[string]any{}
			},
		},
		{
			name: "action config fails schema",
			mutate: func(w *models.Workflow) {
				w.Steps[1].Config = map[string]any{"subject": "no recipient"}
			},
		},
		{
			name: "branching connection graph",
			mutate: func(w *models.Workflow) {
				w.Steps = append(w.Steps, &models.Step{
					ID:         "extra",
					Type:       models.StepTypeAction,
					ActionType: models.ActionTypeNotification,
					Config:     map[string]any{"message": "hi"},
				})
				w.Connections = append(w.Connections, &models.Connection{From: "on_signup", To: "extra"})
			},
		},
		{
			name: "connection to unknown step",
			mutate: func(w *models.Workflow) {
				w.Connections = append(w.Connections, &models.Connection{From: "send_welcome", To: "ghost"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflow := validWorkflow()
			tt.mutate(workflow)

			_, err := repo.Save(t.Context(), workflow)
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "expected a validation error, got %v", err)

			// Nothing was persisted.
			if workflow.ID != "" {
				_, err := repo.FetchByID(t.Context(), workflow.ID)
				assert.Error(t, err)
			}
		})
	}
}

func TestRepository_Delete_Idempotent(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Save(t.Context(), validWorkflow())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(t.Context(), created.ID))

	_, err = repo.FetchByID(t.Context(), created.ID)
	assert.True(t, IsWorkflowNotFound(err))

	// Deleting again, or deleting an id that never existed, succeeds.
	assert.NoError(t, repo.Delete(t.Context(), created.ID))
	assert.NoError(t, repo.Delete(t.Context(), "never-existed"))
}

func TestRepository_Delete_KeepsExecutionHistory(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Save(t.Context(), validWorkflow())
	require.NoError(t, err)

	execution := models.NewExecution(created.ID, nil)
	execution.Start()
	execution.Complete()
	require.NoError(t, repo.RecordExecution(t.Context(), execution))

	require.NoError(t, repo.Delete(t.Context(), created.ID))

	executions, err := repo.ExecutionsFor(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Len(t, executions, 1)
}

func TestRepository_ToggleActive(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Save(t.Context(), validWorkflow())
	require.NoError(t, err)
	require.False(t, created.IsActive)

	toggled, err := repo.ToggleActive(t.Context(), created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	toggled, err = repo.ToggleActive(t.Context(), created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = repo.ToggleActive(t.Context(), "ghost")
	assert.True(t, IsWorkflowNotFound(err))
}

func TestRepository_FetchActive(t *testing.T) {
	repo := newTestRepository(t)

	active := validWorkflow()
	active.IsActive = true
	_, err := repo.Save(t.Context(), active)
	require.NoError(t, err)

	_, err = repo.Save(t.Context(), validWorkflow())
	require.NoError(t, err)

	workflows, err := repo.FetchActive(t.Context())
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.True(t, workflows[0].IsActive)
}
