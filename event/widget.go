package event

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/opdss/nbkit/contracts/event"
)

var _ event.Source = (*Widget)(nil)

// Widget is a minimal event source. Hosts with their own widget model only need
// to implement event.Source.
type Widget struct {
	id   string
	Name string
}

// NewWidget returns a widget with a random id.
func NewWidget(name string) *Widget {
	return &Widget{id: uuid.NewString(), Name: name}
}

// NewWidgetWithID returns a widget with a fixed id, e.g. a model id handed out by a frontend.
func NewWidgetWithID(id, name string) *Widget {
	return &Widget{id: id, Name: name}
}

func (w *Widget) ID() string {
	if w == nil {
		return ""
	}
	return w.id
}

func (w *Widget) String() string {
	if w == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", w.Name, w.id)
}

// Click builds the bare event a button sends.
func (w *Widget) Click() event.Bare {
	return event.Bare{Source: w}
}

// Notify builds a structured event owned by w.
func (w *Widget) Notify(kind event.Kind, payload map[string]any) *event.Record {
	return &event.Record{Source: w, Type: kind, Payload: payload}
}
