// Package models defines the core domain models for workflow automation.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Graph shape errors returned by ExecutionOrder. The connection graph must
// form a single simple path; anything else is rejected at save time.
var (
	ErrNoEntryStep        = errors.New("workflow has no entry step")
	ErrMultipleEntrySteps = errors.New("workflow has multiple entry steps")
	ErrBranchingPath      = errors.New("workflow connections branch")
	ErrCyclicPath         = errors.New("workflow connections form a cycle")
	ErrUnknownStepRef     = errors.New("connection references unknown step")
)

// Connection is a directed edge defining execution order between two steps.
type Connection struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to"   validate:"required"`
}

// Workflow is a saved, named automation definition composed of steps and
// connections. IsActive gates automatic triggers only; manual execution of an
// inactive workflow remains allowed.
type Workflow struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"        validate:"required,min=3"`
	Description string        `json:"description"`
	IsActive    bool          `json:"isActive"`
	Steps       []*Step       `json:"steps"`
	Connections []*Connection `json:"connections"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// StepByID returns the step with the given id, or nil.
func (w *Workflow) StepByID(id string) *Step {
	for _, step := range w.Steps {
		if step.ID == id {
			return step
		}
	}

	return nil
}

// EntryStep returns the step with no incoming connection. When the workflow
// has no connections the first stored step is the entry.
func (w *Workflow) EntryStep() *Step {
	if len(w.Steps) == 0 {
		return nil
	}

	if len(w.Connections) == 0 {
		return w.Steps[0]
	}

	incoming := make(map[string]bool, len(w.Connections))
	for _, conn := range w.Connections {
		incoming[conn.To] = true
	}

	for _, step := range w.Steps {
		if !incoming[step.ID] {
			return step
		}
	}

	return nil
}

// ExecutionOrder computes the linear step order by following connections from
// the entry step forward. Workflows without connections fall back to the
// stored step order. The graph must be a single simple path: multiple entry
// points, branching, cycles, and dangling references are errors.
func (w *Workflow) ExecutionOrder() ([]*Step, error) {
	if len(w.Steps) == 0 {
		return nil, nil
	}

	if len(w.Connections) == 0 {
		return w.Steps, nil
	}

	next := make(map[string]string, len(w.Connections))
	incoming := make(map[string]int, len(w.Connections))

	for _, conn := range w.Connections {
		if w.StepByID(conn.From) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStepRef, conn.From)
		}

		if w.StepByID(conn.To) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStepRef, conn.To)
		}

		if _, dup := next[conn.From]; dup {
			return nil, fmt.Errorf("%w: step %s has multiple outgoing connections", ErrBranchingPath, conn.From)
		}

		next[conn.From] = conn.To

		incoming[conn.To]++
		if incoming[conn.To] > 1 {
			return nil, fmt.Errorf("%w: step %s has multiple incoming connections", ErrBranchingPath, conn.To)
		}
	}

	var entry *Step

	for _, step := range w.Steps {
		if incoming[step.ID] == 0 {
			if entry != nil {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleEntrySteps, entry.ID, step.ID)
			}

			entry = step
		}
	}

	if entry == nil {
		return nil, ErrCyclicPath
	}

	order := make([]*Step, 0, len(w.Steps))
	visited := make(map[string]bool, len(w.Steps))

	for id := entry.ID; id != ""; id = next[id] {
		if visited[id] {
			return nil, fmt.Errorf("%w: revisited step %s", ErrCyclicPath, id)
		}

		visited[id] = true

		order = append(order, w.StepByID(id))
	}

	if len(order) != len(w.Steps) {
		return nil, fmt.Errorf("%w: %d of %d steps unreachable from entry",
			ErrMultipleEntrySteps, len(w.Steps)-len(order), len(w.Steps))
	}

	return order, nil
}
