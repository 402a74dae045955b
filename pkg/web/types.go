// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/flowline/flowline/pkg/models"

// SaveWorkflowRequest represents the request body for creating or replacing a
// workflow definition. The same shape serves POST /workflows and
// PUT /workflows/:id; the dashboard always submits the full definition.
type SaveWorkflowRequest struct {
	Name        string               `json:"name"        validate:"required,min=1"`
	Description string               `json:"description"`
	IsActive    bool                 `json:"isActive"`
	Steps       []*models.Step       `json:"steps"`
	Connections []*models.Connection `json:"connections"`
}

// ToWorkflow builds the model the repository persists. The id is supplied by
// the route, empty for creates.
func (r *SaveWorkflowRequest) ToWorkflow(id string) *models.Workflow {
	steps := r.Steps
	if steps == nil {
		steps = []*models.Step{}
	}

	connections := r.Connections
	if connections == nil {
		connections = []*models.Connection{}
	}

	return &models.Workflow{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		Steps:       steps,
		Connections: connections,
	}
}

// FormSubmissionResponse summarizes the fan-out of one form submission.
type FormSubmissionResponse struct {
	FormID     string              `json:"formId"`
	Dispatched int                 `json:"dispatched"`
	Executions []*models.Execution `json:"executions"`
}
