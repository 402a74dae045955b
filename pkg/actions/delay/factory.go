package delay

import (
	"github.com/flowline/flowline/pkg/protocol"
)

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return "delay"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration": map[string]any{
				"description": "Wait length: seconds as a number, a Go duration string, or an ISO-8601 duration",
				"anyOf": []map[string]any{
					{"type": "number", "minimum": 0},
					{"type": "string", "minLength": 1},
				},
			},
		},
		"required": []string{"duration"},
	}
}
