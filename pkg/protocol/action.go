// Package protocol defines the contracts between the orchestrator and the
// step executors, and the collaborator interfaces executors invoke for
// external side effects.
package protocol

import (
	"context"
	"log/slog"

	"github.com/flowline/flowline/pkg/models"
)

// Action is one step executor. Execute receives the placeholder-resolved
// configuration at construction time and the current execution context; its
// output is merged into the context under the step's id. A returned error is
// an executor fault: the orchestrator absorbs it into the execution record
// and aborts the remaining steps.
type Action interface {
	Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error)
}

// ActionFactory creates Action instances from resolved step configuration.
type ActionFactory interface {
	// ID returns the action type tag this factory handles.
	ID() string

	// Create builds an action from a resolved config. Construction validates
	// the config shape; a config failing the factory's Schema is rejected.
	Create(config map[string]any) (Action, error)

	// Schema returns the JSON schema describing the required config fields.
	Schema() map[string]any
}
