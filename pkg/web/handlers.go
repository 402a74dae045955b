// Package web provides HTTP handlers and REST API endpoints for workflow management.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/registry"
	"github.com/flowline/flowline/pkg/workflow"
)

type APIHandlers struct {
	repository *workflow.Repository
	executor   *workflow.Executor
	dispatcher *workflow.Dispatcher
	registry   *registry.Registry
	validator  *validator.Validate
}

func NewAPIHandlers(
	repository *workflow.Repository,
	executor *workflow.Executor,
	dispatcher *workflow.Dispatcher,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		repository: repository,
		executor:   executor,
		dispatcher: dispatcher,
		registry:   registry,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes binds every endpoint the dashboard consumes onto the app.
func (h *APIHandlers) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)

	app.Get("/workflows", h.GetWorkflows)
	app.Post("/workflows", h.CreateWorkflow)
	app.Get("/workflows/:id", h.GetWorkflow)
	app.Put("/workflows/:id", h.UpdateWorkflow)
	app.Delete("/workflows/:id", h.DeleteWorkflow)
	app.Post("/workflows/:id/toggle", h.ToggleWorkflow)
	app.Post("/workflows/:id/execute", h.ExecuteWorkflow)
	app.Get("/workflows/:id/executions", h.GetExecutions)

	app.Post("/forms/:formId/submissions", h.SubmitForm)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.repository.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowline API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Flowline API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.repository.FetchAll(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows": workflows,
		"count":     len(workflows),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	found, err := h.repository.FetchByID(c.Context(), id)
	if err != nil {
		if workflow.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(found)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req SaveWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.repository.Save(c.Context(), req.ToWorkflow(""))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req SaveWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.repository.Save(c.Context(), req.ToWorkflow(id))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.repository.Delete(c.Context(), id); err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	toggled, err := h.repository.ToggleActive(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(toggled)
}

// ExecuteWorkflow starts a manual run. The request body, when present, is
// the trigger payload seeded into the execution context. Manual runs ignore
// the isActive flag.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	triggerData := map[string]any{}

	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&triggerData); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	execution, err := h.executor.ExecuteWorkflow(c.Context(), id, triggerData)
	if err != nil {
		if workflow.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	status := fiber.StatusOK
	if execution.Status == models.ExecutionStatusFailed {
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(execution)
}

func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	executions, err := h.repository.ExecutionsFor(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"executions": executions,
		"count":      len(executions),
	})
}

// SubmitForm fans one form submission out to every active workflow whose
// entry step listens to the form.
func (h *APIHandlers) SubmitForm(c fiber.Ctx) error {
	formID := c.Params("formId")
	if formID == "" {
		return badRequest(c, "Form ID is required")
	}

	submission := map[string]any{}

	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&submission); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	executions, err := h.dispatcher.DispatchFormSubmission(c.Context(), formID, submission)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(FormSubmissionResponse{
		FormID:     formID,
		Dispatched: len(executions),
		Executions: executions,
	})
}
