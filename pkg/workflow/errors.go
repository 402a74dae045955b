package workflow

import (
	"errors"
	"fmt"

	"github.com/flowline/flowline/pkg/persistence"
)

var (
	// ErrValidation marks a malformed workflow definition, rejected before
	// persistence and surfaced synchronously to the caller.
	ErrValidation = errors.New("workflow validation failed")

	// ErrWorkflowNotFound is re-exported so callers don't need to import the
	// persistence package for the common lookup failure.
	ErrWorkflowNotFound = persistence.ErrWorkflowNotFound
)

// ValidationError carries what failed and where.
type ValidationError struct {
	Op      string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || errors.Is(e.Err, target)
}

func NewValidationError(op, message string, err error) *ValidationError {
	return &ValidationError{Op: op, Message: message, Err: err}
}

// IsValidationError checks if an error is a save-time validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsWorkflowNotFound checks if an error indicates an unknown workflow id.
func IsWorkflowNotFound(err error) bool {
	return persistence.IsWorkflowNotFound(err)
}
