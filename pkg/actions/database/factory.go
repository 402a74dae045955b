package database

import (
	"github.com/flowline/flowline/pkg/businessdata"
	"github.com/flowline/flowline/pkg/protocol"
)

type ActionFactory struct {
	store businessdata.Store
}

func NewActionFactory(store businessdata.Store) *ActionFactory {
	return &ActionFactory{store: store}
}

func (*ActionFactory) ID() string {
	return "database"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config, f.store), nil
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"databaseId": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Target virtual database",
			},
			"action": map[string]any{
				"type": "string",
				"enum": []string{OperationCreate, OperationUpdate, OperationDelete},
			},
			"recordId": map[string]any{
				"type":        "string",
				"description": "Target record for update/delete. Supports {{field}} placeholders.",
			},
			"mappings": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"source": map[string]any{"type": "string", "minLength": 1},
						"target": map[string]any{"type": "string", "minLength": 1},
					},
					"required": []string{"source", "target"},
				},
			},
		},
		"required": []string{"databaseId", "action"},
	}
}
