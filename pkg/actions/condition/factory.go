package condition

import (
	"github.com/flowline/flowline/pkg/protocol"
)

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return "condition"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config), nil
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Context field to compare",
			},
			"operator": map[string]any{
				"type": "string",
				"enum": []string{
					OperatorEquals,
					OperatorNotEquals,
					OperatorContains,
					OperatorGreaterThan,
					OperatorLessThan,
				},
			},
			"value": map[string]any{
				"description": "Value to compare against",
			},
		},
		"required": []string{"field", "operator", "value"},
	}
}
