// Package redis provides Redis-backed persistence for workflows and
// execution history.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/persistence"
)

const (
	workflowsKey        = "flowline:workflows"
	executionsKeyPrefix = "flowline:executions:"
)

// Persistence implements the persistence.Persistence interface on Redis.
// Workflows live in a single hash keyed by id; each workflow's execution
// history is a hash keyed by execution id. Hash field writes are atomic on
// the server, which gives the per-workflow last-writer-wins semantics the
// engine requires.
type Persistence struct {
	client goredis.UniversalClient
}

// NewPersistence parses a redis:// URL and connects.
func NewPersistence(ctx context.Context, redisURL string) (*Persistence, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{client: client}, nil
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	entries, err := p.client.HGetAll(ctx, workflowsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(entries))

	for id, data := range entries {
		var workflow models.Workflow
		if err := json.Unmarshal([]byte(data), &workflow); err != nil {
			return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
		}

		workflows = append(workflows, &workflow)
	}

	return workflows, nil
}

func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	if workflow.ID == "" {
		return persistence.NewWorkflowError("Save", "", persistence.ErrMissingWorkflowID)
	}

	data, err := json.Marshal(workflow)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", workflow.ID, err)
	}

	if err := p.client.HSet(ctx, workflowsKey, workflow.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflow.ID, err)
	}

	return nil
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	data, err := p.client.HGet(ctx, workflowsKey, id).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.NewWorkflowError("Get", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to get workflow %s: %w", id, err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal([]byte(data), &workflow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	if err := p.client.HDel(ctx, workflowsKey, id).Err(); err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

func (p *Persistence) SaveExecution(ctx context.Context, execution *models.Execution) error {
	if execution.ID == "" {
		return persistence.ErrMissingExecutionID
	}

	data, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	key := executionsKeyPrefix + execution.WorkflowID
	if err := p.client.HSet(ctx, key, execution.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	return nil
}

func (p *Persistence) ExecutionsByWorkflowID(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	entries, err := p.client.HGetAll(ctx, executionsKeyPrefix+workflowID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for workflow %s: %w", workflowID, err)
	}

	executions := make([]*models.Execution, 0, len(entries))

	for id, data := range entries {
		var execution models.Execution
		if err := json.Unmarshal([]byte(data), &execution); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution %s: %w", id, err)
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

func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
