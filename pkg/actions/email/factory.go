package email

import (
	"github.com/flowline/flowline/pkg/protocol"
)

type ActionFactory struct {
	mailer protocol.Mailer
}

func NewActionFactory(mailer protocol.Mailer) *ActionFactory {
	return &ActionFactory{mailer: mailer}
}

func (*ActionFactory) ID() string {
	return "email"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config, f.mailer), nil
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Recipient address. Supports {{field}} placeholders.",
			},
			"subject": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Subject line. Supports {{field}} placeholders.",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Message body. Supports {{field}} placeholders.",
			},
		},
		"required": []string{"to", "subject"},
	}
}
