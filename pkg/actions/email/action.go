// Package email implements the email step executor. Delivery goes through
// the protocol.Mailer collaborator; the engine never talks to a mail API
// directly.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/protocol"
)

type Action struct {
	To      string
	Subject string
	Body    string

	mailer protocol.Mailer
}

func NewAction(config map[string]any, mailer protocol.Mailer) *Action {
	to, _ := config["to"].(string)
	subject, _ := config["subject"].(string)
	body, _ := config["body"].(string)

	return &Action{
		To:      to,
		Subject: subject,
		Body:    body,
		mailer:  mailer,
	}
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "email", "to", a.To)

	if a.To == "" {
		return nil, errors.New("email action requires a 'to' recipient")
	}

	if a.Subject == "" {
		return nil, errors.New("email action requires a 'subject'")
	}

	messageID, err := a.mailer.Send(ctx, protocol.EmailMessage{
		To:      a.To,
		Subject: a.Subject,
		Body:    a.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send email to %s: %w", a.To, err)
	}

	logger.InfoContext(ctx, "Email delivered", "message_id", messageID)

	return map[string]any{
		"messageId":   messageID,
		"to":          a.To,
		"subject":     a.Subject,
		"deliveredAt": time.Now().UTC().Format(time.RFC3339),
	}, nil
}
