package event

import (
	"github.com/opdss/nbkit/contracts/event"
	"github.com/opdss/nbkit/table"
)

// WhenNotEmpty wraps h so it only runs while t holds data, e.g. an export button
// that has nothing to export before a file was loaded. t is checked on every event.
func WhenNotEmpty(t *table.Table, h event.Handler) event.Handler {
	return event.HandlerFunc(func(evt event.Event) {
		if t == nil || t.IsEmpty() {
			return
		}
		h.Handle(evt)
	})
}
