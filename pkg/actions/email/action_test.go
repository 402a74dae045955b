package email

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/protocol"
)

type fakeMailer struct {
	sent []protocol.EmailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, message protocol.EmailMessage) (string, error) {
	if m.err != nil {
		return "", m.err
	}

	m.sent = append(m.sent, message)

	return "msg-1", nil
}

func executionContext() models.ExecutionContext {
	return *models.NewExecutionContext("exec-1", "wf-1", nil)
}

func TestAction_Execute(t *testing.T) {
	mailer := &fakeMailer{}
	action := NewAction(map[string]any{
		"to":      "user@example.com",
		"subject": "Welcome",
		"body":    "Hello there",
	}, mailer)

	output, err := action.Execute(t.Context(), executionContext(), slog.Default())
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "user@example.com", mailer.sent[0].To)
	assert.Equal(t, "Welcome", mailer.sent[0].Subject)
	assert.Equal(t, "Hello there", mailer.sent[0].Body)

	assert.Equal(t, "msg-1", output["messageId"])
	assert.Equal(t, "user@example.com", output["to"])
	assert.Equal(t, "Welcome", output["subject"])
	assert.NotEmpty(t, output["deliveredAt"])
}

func TestAction_Execute_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
	}{
		{"missing recipient", map[string]any{"subject": "Hi"}},
		{"missing subject", map[string]any{"to": "user@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{}
			action := NewAction(tt.config, mailer)

			_, err := action.Execute(t.Context(), executionContext(), slog.Default())
			require.Error(t, err)
			assert.Empty(t, mailer.sent)
		})
	}
}

func TestAction_Execute_MailerFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp unavailable")}
	action := NewAction(map[string]any{
		"to":      "user@example.com",
		"subject": "Welcome",
	}, mailer)

	_, err := action.Execute(t.Context(), executionContext(), slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp unavailable")
}

func TestActionFactory(t *testing.T) {
	factory := NewActionFactory(&fakeMailer{})

	assert.Equal(t, "email", factory.ID())

	action, err := factory.Create(map[string]any{"to": "a@b.c", "subject": "s"})
	require.NoError(t, err)
	assert.NotNil(t, action)

	schema := factory.Schema()
	assert.Contains(t, schema["required"], "to")
	assert.Contains(t, schema["required"], "subject")
}
