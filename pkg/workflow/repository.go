package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/persistence"
	"github.com/flowline/flowline/pkg/registry"
)

// Repository is the store facade the API layer and the executor consume.
// The UI never reaches the persistence layer directly; everything goes
// through here, and definitions are validated before they are persisted.
type Repository struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validate    *validator.Validate
}

func NewRepository(persistence persistence.Persistence, registry *registry.Registry) *Repository {
	return &Repository{
		persistence: persistence,
		registry:    registry,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (r *Repository) HealthCheck(ctx context.Context) (string, bool) {
	if r.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := r.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (r *Repository) FetchAll(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := r.persistence.Workflows(ctx)
	if err != nil {
		return make([]*models.Workflow, 0), err
	}

	return workflows, nil
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return r.persistence.WorkflowByID(ctx, id)
}

// Save upserts a workflow by id. A new workflow gets a fresh id and
// createdAt; an existing one keeps its createdAt. updatedAt is refreshed on
// every save. Validation happens before anything is persisted.
func (r *Repository) Save(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if err := r.validateWorkflow(workflow); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
		workflow.CreatedAt = now
	} else {
		existing, err := r.persistence.WorkflowByID(ctx, workflow.ID)

		switch {
		case err == nil:
			workflow.CreatedAt = existing.CreatedAt
		case persistence.IsWorkflowNotFound(err):
			if workflow.CreatedAt.IsZero() {
				workflow.CreatedAt = now
			}
		default:
			return nil, err
		}
	}

	workflow.UpdatedAt = now

	if err := r.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// Delete is idempotent; deleting an unknown id is not an error. Execution
// history is never cascaded.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.persistence.DeleteWorkflow(ctx, id)
}

// ToggleActive flips the isActive flag. It does not start or stop any
// in-flight execution.
func (r *Repository) ToggleActive(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := r.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.IsActive = !workflow.IsActive
	workflow.UpdatedAt = time.Now().UTC()

	if err := r.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// FetchActive returns only workflows eligible for automatic triggering.
func (r *Repository) FetchActive(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*models.Workflow, 0, len(workflows))

	for _, workflow := range workflows {
		if workflow.IsActive {
			active = append(active, workflow)
		}
	}

	return active, nil
}

func (r *Repository) RecordExecution(ctx context.Context, execution *models.Execution) error {
	return r.persistence.SaveExecution(ctx, execution)
}

// ExecutionsFor returns the run history for a workflow, most-recent-first.
func (r *Repository) ExecutionsFor(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	return r.persistence.ExecutionsByWorkflowID(ctx, workflowID)
}

func (r *Repository) validateWorkflow(workflow *models.Workflow) error {
	const op = "SaveWorkflow"

	if workflow == nil {
		return NewValidationError(op, "workflow cannot be nil", nil)
	}

	if err := r.validate.Struct(workflow); err != nil {
		return NewValidationError(op, "invalid workflow definition", err)
	}

	seen := make(map[string]bool, len(workflow.Steps))

	for _, step := range workflow.Steps {
		if step.ID == "" {
			return NewValidationError(op, "every step needs an id", nil)
		}

		if seen[step.ID] {
			return NewValidationError(op, fmt.Sprintf("duplicate step id %q", step.ID), nil)
		}

		seen[step.ID] = true

		if err := r.validateStep(step); err != nil {
			return err
		}
	}

	// The connection graph must form a single simple path.
	if _, err := workflow.ExecutionOrder(); err != nil {
		return NewValidationError(op, "invalid connection graph", err)
	}

	return nil
}

func (r *Repository) validateStep(step *models.Step) error {
	const op = "SaveWorkflow"

	switch step.Type {
	case models.StepTypeTrigger:
		if err := r.registry.ValidateTriggerConfig(step.TriggerType, step.Config); err != nil {
			return NewValidationError(op, fmt.Sprintf("step %q", step.ID), err)
		}
	case models.StepTypeAction:
		if err := r.registry.ValidateActionConfig(step.ActionType, step.Config); err != nil {
			return NewValidationError(op, fmt.Sprintf("step %q", step.ID), err)
		}
	default:
		return NewValidationError(op, fmt.Sprintf("step %q has unknown type %q", step.ID, step.Type), nil)
	}

	return nil
}
