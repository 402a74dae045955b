// Package config provides YAML loading for workflow definitions, so
// deployments can seed or version-control workflows outside the dashboard.
package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/workflow"
)

// WorkflowsFile represents the structure of a workflows.yaml file.
type WorkflowsFile struct {
	Workflows []WorkflowConfig `yaml:"workflows"`
}

// WorkflowConfig represents one workflow definition in the YAML file.
type WorkflowConfig struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	IsActive    bool               `yaml:"is_active"`
	Steps       []StepConfig       `yaml:"steps"`
	Connections []ConnectionConfig `yaml:"connections"`
}

type StepConfig struct {
	ID          string         `yaml:"id"`
	Type        string         `yaml:"type"`
	TriggerType string         `yaml:"trigger_type"`
	ActionType  string         `yaml:"action_type"`
	Name        string         `yaml:"name"`
	Config      map[string]any `yaml:"config"`
}

type ConnectionConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadWorkflows loads workflow definitions from a YAML file.
func LoadWorkflows(filepath string) ([]*models.Workflow, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflows file %s: %w", filepath, err)
	}

	var configFile WorkflowsFile
	if err := yaml.Unmarshal(data, &configFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML workflows: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(configFile.Workflows))

	for i := range configFile.Workflows {
		workflows = append(workflows, configFile.Workflows[i].toModel())
	}

	return workflows, nil
}

// ImportWorkflows loads a YAML file and saves every workflow it defines
// through the repository, so imports get the same validation as the API.
func ImportWorkflows(ctx context.Context, repository *workflow.Repository, filepath string) ([]*models.Workflow, error) {
	workflows, err := LoadWorkflows(filepath)
	if err != nil {
		return nil, err
	}

	imported := make([]*models.Workflow, 0, len(workflows))

	for _, wf := range workflows {
		saved, err := repository.Save(ctx, wf)
		if err != nil {
			return imported, fmt.Errorf("failed to import workflow %q: %w", wf.Name, err)
		}

		imported = append(imported, saved)
	}

	return imported, nil
}

func (c *WorkflowConfig) toModel() *models.Workflow {
	steps := make([]*models.Step, 0, len(c.Steps))

	for _, step := range c.Steps {
		config := step.Config
		if config == nil {
			config = map[string]any{}
		}

		steps = append(steps, &models.Step{
			ID:          step.ID,
			Type:        models.StepType(step.Type),
			TriggerType: models.TriggerType(step.TriggerType),
			ActionType:  models.ActionType(step.ActionType),
			Name:        step.Name,
			Config:      config,
		})
	}

	connections := make([]*models.Connection, 0, len(c.Connections))

	for _, conn := range c.Connections {
		connections = append(connections, &models.Connection{
			From: conn.From,
			To:   conn.To,
		})
	}

	return &models.Workflow{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		Steps:       steps,
		Connections: connections,
	}
}
