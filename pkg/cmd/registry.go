// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/flowline/flowline/pkg/actions/condition"
	"github.com/flowline/flowline/pkg/actions/database"
	"github.com/flowline/flowline/pkg/actions/delay"
	"github.com/flowline/flowline/pkg/actions/email"
	"github.com/flowline/flowline/pkg/actions/notification"
	"github.com/flowline/flowline/pkg/businessdata"
	"github.com/flowline/flowline/pkg/protocol"
	"github.com/flowline/flowline/pkg/registry"
)

// Collaborators are the side-effect backends the step executors talk to.
// Every field is optional; missing ones get slog-backed defaults so a bare
// deployment still runs end to end.
type Collaborators struct {
	Mailer   protocol.Mailer
	Notifier protocol.Notifier
	Data     businessdata.Store
}

func NewRegistry(logger *slog.Logger, collaborators Collaborators) *registry.Registry {
	if collaborators.Mailer == nil {
		collaborators.Mailer = email.NewSlogMailer(logger)
	}

	if collaborators.Notifier == nil {
		collaborators.Notifier = notification.NewSlogNotifier(logger)
	}

	if collaborators.Data == nil {
		collaborators.Data = businessdata.NewMemoryStore()
	}

	reg := registry.NewRegistry(logger)

	reg.RegisterAction(email.NewActionFactory(collaborators.Mailer))
	reg.RegisterAction(database.NewActionFactory(collaborators.Data))
	reg.RegisterAction(notification.NewActionFactory(collaborators.Notifier))
	reg.RegisterAction(condition.NewActionFactory())
	reg.RegisterAction(delay.NewActionFactory())

	return reg
}
