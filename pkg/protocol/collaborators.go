package protocol

import "context"

// EmailMessage is the payload handed to the mail collaborator.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer is the outbound email collaborator. Implementations are external to
// the engine; Send returns a delivery acknowledgment id.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

// Notification is the payload handed to the notification collaborator.
type Notification struct {
	Message        string
	RecipientScope string
}

// Notifier dispatches in-app notifications and returns the dispatched
// notification id.
type Notifier interface {
	Dispatch(ctx context.Context, notification Notification) (string, error)
}
