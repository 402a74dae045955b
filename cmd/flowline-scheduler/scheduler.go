// Package main provides the Flowline scheduler, the daemon that runs
// workflows with schedule entry triggers on their cron expressions.
package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/workflow"
)

type scheduledJob struct {
	entryID  cron.EntryID
	cronExpr string
}

// Scheduler keeps one cron entry per active schedule-triggered workflow and
// refreshes the set periodically so dashboard edits take effect without a
// restart.
type Scheduler struct {
	repository      *workflow.Repository
	executor        *workflow.Executor
	logger          *slog.Logger
	refreshInterval time.Duration

	cron *cron.Cron

	mu   sync.Mutex
	jobs map[string]scheduledJob
}

func NewScheduler(repository *workflow.Repository, executor *workflow.Executor, logger *slog.Logger, refreshInterval time.Duration) *Scheduler {
	return &Scheduler{
		repository:      repository,
		executor:        executor,
		logger:          logger.With("module", "scheduler"),
		refreshInterval: refreshInterval,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		jobs: make(map[string]scheduledJob),
	}
}

// Run blocks until the context is cancelled, then stops the cron runner and
// waits for in-flight runs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.sync(ctx); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Scheduler started", "refresh_interval", s.refreshInterval.String())

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Scheduler stopping")

			stopCtx := s.cron.Stop()
			<-stopCtx.Done()

			return nil
		case <-ticker.C:
			if err := s.sync(ctx); err != nil {
				s.logger.ErrorContext(ctx, "Failed to refresh scheduled workflows", "error", err)
			}
		}
	}
}

// sync reconciles cron entries with the current set of active workflows
// whose entry step is a schedule trigger.
func (s *Scheduler) sync(ctx context.Context) error {
	workflows, err := s.repository.FetchActive(ctx)
	if err != nil {
		return err
	}

	wanted := make(map[string]string)

	for _, wf := range workflows {
		if expr, ok := scheduleExpression(wf); ok {
			wanted[wf.ID] = expr
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for workflowID, job := range s.jobs {
		expr, stillWanted := wanted[workflowID]
		if stillWanted && expr == job.cronExpr {
			continue
		}

		s.cron.Remove(job.entryID)
		delete(s.jobs, workflowID)
	}

	for workflowID, expr := range wanted {
		if _, exists := s.jobs[workflowID]; exists {
			continue
		}

		entryID, err := s.cron.AddFunc(expr, s.runJob(workflowID))
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping workflow with invalid cron expression",
				"workflow_id", workflowID,
				"cron", expr,
				"error", err,
			)

			continue
		}

		s.jobs[workflowID] = scheduledJob{entryID: entryID, cronExpr: expr}
		s.logger.InfoContext(ctx, "Scheduled workflow", "workflow_id", workflowID, "cron", expr)
	}

	return nil
}

func (s *Scheduler) runJob(workflowID string) func() {
	return func() {
		ctx := context.Background()

		triggerData := map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		execution, err := s.executor.ExecuteWorkflow(ctx, workflowID, triggerData)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to execute scheduled workflow",
				"workflow_id", workflowID,
				"error", err,
			)

			return
		}

		s.logger.InfoContext(ctx, "Scheduled run finished",
			"workflow_id", workflowID,
			"execution_id", execution.ID,
			"status", string(execution.Status),
		)
	}
}

func scheduleExpression(wf *models.Workflow) (string, bool) {
	entry := wf.EntryStep()
	if entry == nil || !entry.IsTrigger() || entry.TriggerType != models.TriggerTypeSchedule {
		return "", false
	}

	expr, _ := entry.Config["cron"].(string)

	return expr, expr != ""
}
