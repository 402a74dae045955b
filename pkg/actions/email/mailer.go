package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flowline/flowline/pkg/protocol"
)

// SlogMailer is the default Mailer: it logs the message instead of sending
// it. Deployments wire a real mail collaborator in its place.
type SlogMailer struct {
	logger *slog.Logger
}

func NewSlogMailer(logger *slog.Logger) *SlogMailer {
	return &SlogMailer{logger: logger.With("module", "mailer")}
}

func (m *SlogMailer) Send(ctx context.Context, msg protocol.EmailMessage) (string, error) {
	messageID := uuid.New().String()

	m.logger.InfoContext(ctx, "Sending email",
		"message_id", messageID,
		"to", msg.To,
		"subject", msg.Subject)

	return messageID, nil
}
