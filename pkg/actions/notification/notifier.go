package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flowline/flowline/pkg/protocol"
)

// SlogNotifier is the default Notifier: it logs the notification instead of
// dispatching it to the dashboard's toast subsystem.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger.With("module", "notifier")}
}

func (n *SlogNotifier) Dispatch(ctx context.Context, notification protocol.Notification) (string, error) {
	notificationID := uuid.New().String()

	n.logger.InfoContext(ctx, "Dispatching notification",
		"notification_id", notificationID,
		"recipient_scope", notification.RecipientScope,
		"message", notification.Message)

	return notificationID, nil
}
