// Package registry holds the action factories and the per-kind config
// schemas used to validate steps at save time.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/protocol"
)

type Registry struct {
	logger          *slog.Logger
	actionFactories map[string]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:          logger,
		actionFactories: make(map[string]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.actionFactories[factory.ID()] = factory
}

// CreateAction builds an executor for the given action type from a resolved
// step config.
func (r *Registry) CreateAction(actionType string, config map[string]any) (protocol.Action, error) {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return nil, fmt.Errorf("action type '%s' not registered", actionType)
	}

	return factory.Create(config)
}

// AvailableActions returns the registered action type tags.
func (r *Registry) AvailableActions() []string {
	types := make([]string, 0, len(r.actionFactories))
	for actionType := range r.actionFactories {
		types = append(types, actionType)
	}

	return types
}

// ValidateActionConfig checks a step config against the factory's schema.
func (r *Registry) ValidateActionConfig(actionType models.ActionType, config map[string]any) error {
	factory, ok := r.actionFactories[string(actionType)]
	if !ok {
		return fmt.Errorf("action type '%s' not registered", actionType)
	}

	return validateAgainstSchema(factory.Schema(), config)
}

// ValidateTriggerConfig checks a trigger step config against the built-in
// trigger schemas. Trigger steps are never executed; their config only
// defines how a run is initiated.
func (r *Registry) ValidateTriggerConfig(triggerType models.TriggerType, config map[string]any) error {
	schema, ok := triggerSchemas[triggerType]
	if !ok {
		return fmt.Errorf("trigger type '%s' not supported", triggerType)
	}

	return validateAgainstSchema(schema, config)
}

// HealthCheck reports whether the registry has executors for every known
// action kind.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.actionFactories) == 0 {
		return "No action executors registered", false
	}

	return fmt.Sprintf("%d action executors registered", len(r.actionFactories)), true
}

func validateAgainstSchema(schema, config map[string]any) error {
	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return fmt.Errorf("invalid config: %v", messages)
	}

	return nil
}
