package workflow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/flowline/flowline/pkg/models"
)

// Dispatcher fans external events out to the workflows that subscribe to
// them. A form submission may start any number of workflows; each gets its
// own execution, and one failing run never blocks the others.
type Dispatcher struct {
	repository *Repository
	executor   *Executor
	logger     *slog.Logger
}

func NewDispatcher(repository *Repository, executor *Executor, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		repository: repository,
		executor:   executor,
		logger:     logger.With("module", "workflow_dispatcher"),
	}
}

// DispatchFormSubmission starts every active workflow whose entry step is a
// form trigger bound to formID. Inactive workflows are skipped; a manual run
// through the executor is the only way to start those.
func (d *Dispatcher) DispatchFormSubmission(ctx context.Context, formID string, submission map[string]any) ([]*models.Execution, error) {
	workflows, err := d.repository.FetchActive(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Workflow, 0)

	for _, workflow := range workflows {
		if d.matchesForm(workflow, formID) {
			matched = append(matched, workflow)
		}
	}

	if len(matched) == 0 {
		d.logger.InfoContext(ctx, "No active workflows subscribed to form", "form_id", formID)

		return []*models.Execution{}, nil
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		executions = make([]*models.Execution, 0, len(matched))
	)

	for _, workflow := range matched {
		wg.Add(1)

		go func(workflow *models.Workflow) {
			defer wg.Done()

			execution, err := d.executor.ExecuteWorkflow(ctx, workflow.ID, submission)
			if err != nil {
				d.logger.ErrorContext(ctx, "Failed to execute workflow for form submission",
					"workflow_id", workflow.ID,
					"form_id", formID,
					"error", err,
				)
			}

			if execution != nil {
				mu.Lock()
				executions = append(executions, execution)
				mu.Unlock()
			}
		}(workflow)
	}

	wg.Wait()

	return executions, nil
}

func (d *Dispatcher) matchesForm(workflow *models.Workflow, formID string) bool {
	entry := workflow.EntryStep()
	if entry == nil {
		return false
	}

	if !entry.IsTrigger() || entry.TriggerType != models.TriggerTypeForm {
		return false
	}

	configured, _ := entry.Config["formId"].(string)

	return configured == formID
}
