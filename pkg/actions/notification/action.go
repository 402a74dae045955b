// Package notification implements the notification step executor.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/protocol"
)

type Action struct {
	Message        string
	RecipientScope string

	notifier protocol.Notifier
}

func NewAction(config map[string]any, notifier protocol.Notifier) *Action {
	message, _ := config["message"].(string)
	scope, _ := config["recipientScope"].(string)

	if scope == "" {
		scope = "owner"
	}

	return &Action{
		Message:        message,
		RecipientScope: scope,
		notifier:       notifier,
	}
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "notification", "recipient_scope", a.RecipientScope)

	if a.Message == "" {
		return nil, errors.New("notification action requires a 'message'")
	}

	notificationID, err := a.notifier.Dispatch(ctx, protocol.Notification{
		Message:        a.Message,
		RecipientScope: a.RecipientScope,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch notification: %w", err)
	}

	logger.InfoContext(ctx, "Notification dispatched", "notification_id", notificationID)

	return map[string]any{
		"notificationId": notificationID,
		"message":        a.Message,
		"recipientScope": a.RecipientScope,
	}, nil
}
