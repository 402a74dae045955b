// Package file provides file-based persistence, one JSON document per
// workflow and per execution under a root directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface on the file
// system. State is re-read from disk on every call, so a restarted process
// picks up previously saved workflows without an explicit load step.
type Persistence struct {
	root       string
	writeLocks persistence.KeyedMutex
}

func NewPersistence(root string) *Persistence {
	cleanRoot := strings.TrimPrefix(root, "file://")

	return &Persistence{root: cleanRoot}
}

func (p *Persistence) workflowsDir() string {
	return filepath.Join(p.root, "workflows")
}

func (p *Persistence) executionsDir(workflowID string) string {
	return filepath.Join(p.root, "executions", workflowID)
}

// validateID rejects ids that could escape the storage root.
func validateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if strings.Contains(id, "..") || strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("id %q contains invalid characters", id)
	}

	return nil
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	entries, err := fs.Glob(os.DirFS(p.workflowsDir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(entries))

	for _, entry := range entries {
		id := strings.TrimSuffix(entry, ".json")

		workflow, err := p.WorkflowByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

func (p *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	if workflow.ID == "" {
		return persistence.NewWorkflowError("Save", "", persistence.ErrMissingWorkflowID)
	}

	if err := validateID(workflow.ID); err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	p.writeLocks.Lock(workflow.ID)
	defer p.writeLocks.Unlock(workflow.ID)

	if err := os.MkdirAll(p.workflowsDir(), 0750); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", workflow.ID, err)
	}

	path := filepath.Join(p.workflowsDir(), workflow.ID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write workflow %s: %w", workflow.ID, err)
	}

	return nil
}

func (p *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	if err := validateID(id); err != nil {
		return nil, persistence.NewWorkflowError("Get", id, err)
	}

	path := filepath.Join(p.workflowsDir(), id+".json")

	data, err := os.ReadFile(path) // #nosec G304 -- id is validated against traversal
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("Get", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

func (p *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return persistence.NewWorkflowError("Delete", id, err)
	}

	p.writeLocks.Lock(id)
	defer p.writeLocks.Unlock(id)

	path := filepath.Join(p.workflowsDir(), id+".json")

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

func (p *Persistence) SaveExecution(_ context.Context, execution *models.Execution) error {
	if execution.ID == "" {
		return persistence.ErrMissingExecutionID
	}

	if err := validateID(execution.ID); err != nil {
		return err
	}

	if err := validateID(execution.WorkflowID); err != nil {
		return err
	}

	p.writeLocks.Lock(execution.WorkflowID)
	defer p.writeLocks.Unlock(execution.WorkflowID)

	dir := p.executionsDir(execution.WorkflowID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create executions directory: %w", err)
	}

	data, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	path := filepath.Join(dir, execution.ID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write execution %s: %w", execution.ID, err)
	}

	return nil
}

func (p *Persistence) ExecutionsByWorkflowID(_ context.Context, workflowID string) ([]*models.Execution, error) {
	if err := validateID(workflowID); err != nil {
		return nil, err
	}

	dir := p.executionsDir(workflowID)

	entries, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	executions := make([]*models.Execution, 0, len(entries))

	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(dir, entry)) // #nosec G304 -- path comes from our own glob
		if err != nil {
			return nil, fmt.Errorf("failed to read execution %s: %w", entry, err)
		}

		var execution models.Execution
		if err := json.Unmarshal(data, &execution); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution %s: %w", entry, err)
		}

		executions = append(executions, &execution)
	}

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

	return executions, nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}
