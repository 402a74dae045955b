package notification

import (
	"github.com/flowline/flowline/pkg/protocol"
)

type ActionFactory struct {
	notifier protocol.Notifier
}

func NewActionFactory(notifier protocol.Notifier) *ActionFactory {
	return &ActionFactory{notifier: notifier}
}

func (*ActionFactory) ID() string {
	return "notification"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config, f.notifier), nil
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Notification text. Supports {{field}} placeholders.",
			},
			"recipientScope": map[string]any{
				"type":        "string",
				"description": "Who receives the notification",
				"default":     "owner",
			},
		},
		"required": []string{"message"},
	}
}
