package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus is the lifecycle state of one workflow run.
// Transitions: pending -> running -> completed | failed. The terminal states
// are final; an execution is never mutated after reaching one.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Execution is one historical run record of a workflow. Deleting the owning
// workflow does not delete its executions.
type Execution struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflowId"`
	Status      ExecutionStatus `json:"status"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Error       string          `json:"error,omitempty"`
	TriggerData map[string]any  `json:"triggerData"`
}

// NewExecution creates a pending execution with a fresh id, keeping the
// initiating payload verbatim for audit.
func NewExecution(workflowID string, triggerData map[string]any) *Execution {
	return &Execution{
		ID:          "exec-" + uuid.New().String(),
		WorkflowID:  workflowID,
		Status:      ExecutionStatusPending,
		TriggerData: triggerData,
	}
}

// Start transitions the execution to running.
func (e *Execution) Start() {
	now := time.Now().UTC()
	e.Status = ExecutionStatusRunning
	e.StartedAt = &now
}

// Complete transitions the execution to the completed terminal state.
func (e *Execution) Complete() {
	now := time.Now().UTC()
	e.Status = ExecutionStatusCompleted
	e.CompletedAt = &now
}

// Fail transitions the execution to the failed terminal state with a
// human-readable description of what went wrong.
func (e *Execution) Fail(format string, args ...any) {
	now := time.Now().UTC()
	e.Status = ExecutionStatusFailed
	e.CompletedAt = &now
	e.Error = fmt.Sprintf(format, args...)
}

// IsTerminal reports whether the execution reached a final state.
func (e *Execution) IsTerminal() bool {
	return e.Status == ExecutionStatusCompleted || e.Status == ExecutionStatusFailed
}
