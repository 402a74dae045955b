package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowline/flowline/pkg/actions/email"
	"github.com/flowline/flowline/pkg/actions/notification"
	"github.com/flowline/flowline/pkg/config"
	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/persistence/memory"
	"github.com/flowline/flowline/pkg/registry"
	"github.com/flowline/flowline/pkg/workflow"
)

const workflowsYAML = `workflows:
  - name: Signup Flow
    description: Welcomes new signups
    is_active: true
    steps:
      - id: on_signup
        type: trigger
        trigger_type: form
        name: On signup
        config:
          formId: signup
      - id: send_welcome
        type: action
        action_type: email
        name: Send welcome
        config:
          to: "{{email}}"
          subject: Welcome
    connections:
      - from: on_signup
        to: send_welcome
  - name: Ping Flow
    steps:
      - id: notify
        type: action
        action_type: notification
        config:
          message: ping
`

func writeWorkflowsFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "workflows.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	return path
}

func TestLoadWorkflows(t *testing.T) {
	path := writeWorkflowsFile(t, workflowsYAML)

	workflows, err := config.LoadWorkflows(path)
	require.NoError(t, err)
	require.Len(t, workflows, 2)

	first := workflows[0]
	assert.Equal(t, "Signup Flow", first.Name)
	assert.True(t, first.IsActive)
	require.Len(t, first.Steps, 2)
	assert.Equal(t, models.StepTypeTrigger, first.Steps[0].Type)
	assert.Equal(t, models.TriggerTypeForm, first.Steps[0].TriggerType)
	assert.Equal(t, "signup", first.Steps[0].Config["formId"])
	assert.Equal(t, models.ActionTypeEmail, first.Steps[1].ActionType)
	require.Len(t, first.Connections, 1)
	assert.Equal(t, "on_signup", first.Connections[0].From)

	second := workflows[1]
	assert.False(t, second.IsActive)
	require.Len(t, second.Steps, 1)
	assert.Empty(t, second.Connections)
}

func TestLoadWorkflows_Errors(t *testing.T) {
	_, err := config.LoadWorkflows(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeWorkflowsFile(t, "workflows: [not: valid: yaml")
	_, err = config.LoadWorkflows(path)
	assert.Error(t, err)
}

func TestImportWorkflows(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterAction(email.NewActionFactory(email.NewSlogMailer(slog.Default())))
	reg.RegisterAction(notification.NewActionFactory(notification.NewSlogNotifier(slog.Default())))

	repo := workflow.NewRepository(memory.NewPersistence(), reg)

	path := writeWorkflowsFile(t, workflowsYAML)

	imported, err := config.ImportWorkflows(t.Context(), repo, path)
	require.NoError(t, err)
	require.Len(t, imported, 2)

	for _, wf := range imported {
		assert.NotEmpty(t, wf.ID)
		assert.False(t, wf.CreatedAt.IsZero())
	}

	all, err := repo.FetchAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportWorkflows_InvalidDefinitionStops(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterAction(notification.NewActionFactory(notification.NewSlogNotifier(slog.Default())))

	repo := workflow.NewRepository(memory.NewPersistence(), reg)

	path := writeWorkflowsFile(t, `workflows:
  - name: Bad Flow
    steps:
      - id: notify
        type: action
        action_type: notification
        config: {}
`)

	_, err := config.ImportWorkflows(t.Context(), repo, path)
	require.Error(t, err)
	assert.True(t, workflow.IsValidationError(err))
}
