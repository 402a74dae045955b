// Package memory provides an in-memory persistence implementation, used by
// tests and ephemeral single-process deployments.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/persistence"
)

// Persistence implements persistence.Persistence entirely in memory.
type Persistence struct {
	mu         sync.RWMutex
	workflows  map[string]*models.Workflow
	executions map[string]map[string]*models.Execution // workflowID -> executionID -> execution
	writeLocks persistence.KeyedMutex
}

func NewPersistence() *Persistence {
	return &Persistence{
		workflows:  make(map[string]*models.Workflow),
		executions: make(map[string]map[string]*models.Execution),
	}
}

func (p *Persistence) Workflows(_ context.Context) ([]*models.Workflow, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	workflows := make([]*models.Workflow, 0, len(p.workflows))
	for _, workflow := range p.workflows {
		workflows = append(workflows, copyWorkflow(workflow))
	}

	return workflows, nil
}

func (p *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	if workflow.ID == "" {
		return persistence.NewWorkflowError("Save", "", persistence.ErrMissingWorkflowID)
	}

	p.writeLocks.Lock(workflow.ID)
	defer p.writeLocks.Unlock(workflow.ID)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.workflows[workflow.ID] = copyWorkflow(workflow)

	return nil
}

func (p *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	workflow, ok := p.workflows[id]
	if !ok {
		return nil, persistence.NewWorkflowError("Get", id, persistence.ErrWorkflowNotFound)
	}

	return copyWorkflow(workflow), nil
}

func (p *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	p.writeLocks.Lock(id)
	defer p.writeLocks.Unlock(id)

	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.workflows, id)

	return nil
}

func (p *Persistence) SaveExecution(_ context.Context, execution *models.Execution) error {
	if execution.ID == "" {
		return persistence.ErrMissingExecutionID
	}

	p.writeLocks.Lock(execution.WorkflowID)
	defer p.writeLocks.Unlock(execution.WorkflowID)

	p.mu.Lock()
	defer p.mu.Unlock()

	history, ok := p.executions[execution.WorkflowID]
	if !ok {
		history = make(map[string]*models.Execution)
		p.executions[execution.WorkflowID] = history
	}

	history[execution.ID] = copyExecution(execution)

	return nil
}

func (p *Persistence) ExecutionsByWorkflowID(_ context.Context, workflowID string) ([]*models.Execution, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	history := p.executions[workflowID]

	executions := make([]*models.Execution, 0, len(history))
	for _, execution := range history {
		executions = append(executions, copyExecution(execution))
	}

	sortExecutions(executions)

	return executions, nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// sortExecutions orders executions most-recent-first. Pending executions
// without a start time sort first since they are the newest.
func sortExecutions(executions []*models.Execution) {
	sort.SliceStable(executions, func(i, j int) bool {
		a, b := executions[i].StartedAt, executions[j].StartedAt
		if a == nil {
			return true
		}

		if b == nil {
			return false
		}

		return a.After(*b)
	})
}

// copyExecution detaches the stored record from the caller's trigger data so
// later mutations of the payload cannot rewrite history.
func copyExecution(execution *models.Execution) *models.Execution {
	copied := *execution
	copied.TriggerData = maps.Clone(execution.TriggerData)

	return &copied
}

func copyWorkflow(workflow *models.Workflow) *models.Workflow {
	copied := *workflow

	copied.Steps = make([]*models.Step, len(workflow.Steps))
	for i, step := range workflow.Steps {
		s := *step
		copied.Steps[i] = &s
	}

	copied.Connections = make([]*models.Connection, len(workflow.Connections))
	for i, conn := range workflow.Connections {
		c := *conn
		copied.Connections[i] = &c
	}

	return &copied
}
