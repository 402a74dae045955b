package notification

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowline/flowline/pkg/models"
	"github.com/flowline/flowline/pkg/protocol"
)

type fakeNotifier struct {
	dispatched []protocol.Notification
}

func (n *fakeNotifier) Dispatch(_ context.Context, notification protocol.Notification) (string, error) {
	n.dispatched = append(n.dispatched, notification)

	return "ntf-1", nil
}

func executionContext() models.ExecutionContext {
	return *models.NewExecutionContext("exec-1", "wf-1", nil)
}

func TestAction_Execute(t *testing.T) {
	notifier := &fakeNotifier{}
	action := NewAction(map[string]any{
		"message":        "New signup received",
		"recipientScope": "team",
	}, notifier)

	output, err := action.Execute(t.Context(), executionContext(), slog.Default())
	require.NoError(t, err)

	require.Len(t, notifier.dispatched, 1)
	assert.Equal(t, "New signup received", notifier.dispatched[0].Message)
	assert.Equal(t, "team", notifier.dispatched[0].RecipientScope)

	assert.Equal(t, "ntf-1", output["notificationId"])
	assert.Equal(t, "New signup received", output["message"])
	assert.Equal(t, "team", output["recipientScope"])
}

func TestAction_DefaultScope(t *testing.T) {
	action := NewAction(map[string]any{"message": "hi"}, &fakeNotifier{})

	assert.Equal(t, "owner", action.RecipientScope)
}

func TestAction_Execute_MissingMessage(t *testing.T) {
	notifier := &fakeNotifier{}
	action := NewAction(map[string]any{}, notifier)

	_, err := action.Execute(t.Context(), executionContext(), slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message")
	assert.Empty(t, notifier.dispatched)
}

func TestActionFactory(t *testing.T) {
	factory := NewActionFactory(&fakeNotifier{})

	assert.Equal(t, "notification", factory.ID())

	action, err := factory.Create(map[string]any{"message": "hi"})
	require.NoError(t, err)
	assert.NotNil(t, action)
}
