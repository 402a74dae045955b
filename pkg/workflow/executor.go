package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/otelhelper"
	"github.com/flowline/flowline/pkg/registry"
	"github.com/flowline/flowline/pkg/template"
)

const tracerName = "flowline.workflow.executor"

// Executor runs workflows sequentially, one step at a time, in stored
// connection order. Step failures are absorbed into the execution record;
// ExecuteWorkflow returns a Go error only when the engine itself cannot do
// its job (unknown workflow, persistence failure).
type Executor struct {
	repository *Repository
	registry   *registry.Registry
	logger     *slog.Logger
	tracer     trace.Tracer
	timeout    time.Duration
}

type ExecutorOption func(*Executor)

// WithTimeout bounds a whole run. Zero means no limit.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = timeout
	}
}

func WithTracer(tracer trace.Tracer) ExecutorOption {
	return func(e *Executor) {
		e.tracer = tracer
	}
}

func NewExecutor(repository *Repository, registry *registry.Registry, logger *slog.Logger, opts ...ExecutorOption) *Executor {
	executor := &Executor{
		repository: repository,
		registry:   registry,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor
}

// ExecuteWorkflow runs the identified workflow with the given trigger data.
// Exactly one execution record is created per call, and it is in a terminal
// state (completed or failed) by the time the call returns, even when the
// context is already cancelled.
func (e *Executor) ExecuteWorkflow(ctx context.Context, workflowID string, triggerData map[string]any) (*models.Execution, error) {
	logger := e.logger.With(
		"module", "workflow_executor",
		"workflow_id", workflowID,
	)

	workflow, err := e.repository.FetchByID(ctx, workflowID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch workflow", "error", err)

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	execution := models.NewExecution(workflowID, triggerData)

	logger = logger.With("execution_id", execution.ID)

	if err := e.repository.RecordExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to record execution for workflow %s: %w", workflowID, err)
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.WorkflowNameKey, workflow.Name),
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
	)
	defer span.End()

	if e.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	execution.Start()
	logger.InfoContext(ctx, "Starting execution of workflow")

	if err := e.repository.RecordExecution(ctx, execution); err != nil {
		logger.WarnContext(ctx, "Failed to persist running state", "error", err)
	}

	e.runSteps(ctx, workflow, execution, triggerData, logger)

	span.SetAttributes(attribute.String("flowline.execution.status", string(execution.Status)))

	if execution.Status == models.ExecutionStatusFailed {
		logger.WarnContext(ctx, "Execution failed", "error", execution.Error)
	} else {
		logger.InfoContext(ctx, "Execution completed")
	}

	// The terminal state must land even when the caller's context is done.
	if err := e.repository.RecordExecution(context.WithoutCancel(ctx), execution); err != nil {
		return execution, fmt.Errorf("failed to record terminal state of execution %s: %w", execution.ID, err)
	}

	return execution, nil
}

func (e *Executor) runSteps(ctx context.Context, workflow *models.Workflow, execution *models.Execution, triggerData map[string]any, logger *slog.Logger) {
	order, err := workflow.ExecutionOrder()
	if err != nil {
		// Saved definitions are validated, so a bad graph here means the
		// stored record was tampered with or predates validation.
		execution.Fail("invalid connection graph: %v", err)

		return
	}

	executionCtx := models.NewExecutionContext(execution.ID, workflow.ID, triggerData)

	for _, step := range order {
		if err := ctx.Err(); err != nil {
			execution.Fail("execution interrupted at step %q: %v", step.ID, err)

			return
		}

		if step.IsTrigger() {
			// Triggers describe how a run starts; mid-path they contribute
			// nothing and pass the context through unchanged.
			logger.DebugContext(ctx, "Skipping trigger step", "step_id", step.ID)

			continue
		}

		output, err := e.executeStep(ctx, step, executionCtx, logger)
		if err != nil {
			execution.Fail("step %q (%s) failed: %v", step.ID, step.ActionType, err)

			return
		}

		executionCtx.SetStepResult(step.ID, output)
	}

	execution.Complete()
}

func (e *Executor) executeStep(ctx context.Context, step *models.Step, executionCtx *models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	stepLogger := logger.With(
		"step_id", step.ID,
		"step_name", step.Name,
		"action_type", string(step.ActionType),
	)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.step",
		attribute.String(otelhelper.StepIDKey, step.ID),
		attribute.String(otelhelper.StepNameKey, step.Name),
		attribute.String(otelhelper.ActionTypeKey, string(step.ActionType)),
	)
	defer span.End()

	config := template.ResolveConfig(step.Config, executionCtx)

	action, err := e.registry.CreateAction(string(step.ActionType), config)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	stepLogger.InfoContext(ctx, "Executing step")

	output, err := action.Execute(ctx, *executionCtx, stepLogger)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return output, nil
}
