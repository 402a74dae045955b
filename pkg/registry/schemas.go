package registry

import "github.com/flowline/flowline/pkg/models"

// triggerSchemas describes the required config fields per trigger kind.
// Action schemas live with their factories; triggers have no executor, so
// their schemas are registered here.
var triggerSchemas = map[models.TriggerType]map[string]any{
	models.TriggerTypeForm: {
		"type": "object",
		"properties": map[string]any{
			"formId": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The form whose submissions start this workflow",
			},
		},
		"required": []string{"formId"},
	},
	models.TriggerTypeSchedule: {
		"type": "object",
		"properties": map[string]any{
			"cron": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Cron expression controlling when the workflow fires",
			},
		},
		"required": []string{"cron"},
	},
	models.TriggerTypeDatabase: {
		"type": "object",
		"properties": map[string]any{
			"databaseId": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The virtual database whose changes start this workflow",
			},
		},
		"required": []string{"databaseId"},
	},
	models.TriggerTypeWebhook: {
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Inbound webhook path that starts this workflow",
			},
		},
		"required": []string{"path"},
	},
}
