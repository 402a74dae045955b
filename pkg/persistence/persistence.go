// Package persistence provides the data storage abstraction for workflows
// and execution history.
package persistence

import (
	"context"

	"github.com/flowline/flowline/pkg/models"
)

// Persistence is the storage contract the engine depends on. Writes for the
// same workflow id are serialized by each implementation; writes for
// different workflow ids never block each other.
type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	// DeleteWorkflow is idempotent and does not cascade to executions.
	DeleteWorkflow(ctx context.Context, id string) error

	SaveExecution(ctx context.Context, execution *models.Execution) error
	// ExecutionsByWorkflowID returns the run history most-recent-first.
	ExecutionsByWorkflowID(ctx context.Context, workflowID string) ([]*models.Execution, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
