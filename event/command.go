package event

import (
	"github.com/opdss/nbkit/contracts/event"
)

// Command wraps a handler and checks the shape of an event before handing it over.
// It reports whether the handler was called.
type Command interface {
	Execute(evt event.Event) bool
	command()
}

// clickCommand only forwards bare source events.
type clickCommand struct {
	handler event.Handler
}

func (c *clickCommand) Execute(evt event.Event) bool {
	switch e := evt.(type) {
	case event.Bare:
		if _, ok := sourceID(e.Source); !ok {
			return false
		}
		c.handler.Handle(e)
		return true
	default:
		return false
	}
}

func (*clickCommand) command() {}

// notifyCommand only forwards structured records.
type notifyCommand struct {
	handler event.Handler
}

func (c *notifyCommand) Execute(evt event.Event) bool {
	switch e := evt.(type) {
	case *event.Record:
		if e == nil {
			return false
		}
		c.handler.Handle(e)
		return true
	default:
		return false
	}
}

func (*notifyCommand) command() {}

// NewCommand picks the command variant for kind. Click gets a click command,
// every other kind gets a notify command.
func NewCommand(kind event.Kind, h event.Handler) Command {
	if kind == event.Click {
		return &clickCommand{handler: h}
	}
	return &notifyCommand{handler: h}
}
