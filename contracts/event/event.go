package event

// Kind 事件类型
type Kind string

// Click is the kind implied by a bare source event.
const Click Kind = "click"

// Notify is the conventional kind for trait-change records.
const Notify Kind = "notify"

// Source identifies the widget an event originates from.
type Source interface {
	ID() string
}

// Event is either a *Record or a Bare source. Implementations outside this
// package are not possible.
type Event interface {
	// Owner returns the source the event belongs to.
	Owner() Source
	// Kind returns the event kind used for lookup.
	Kind() Kind
	event()
}

// Record is a structured event with an owner, a kind and an arbitrary payload.
type Record struct {
	Source  Source
	Type    Kind
	Payload map[string]any
}

func (r *Record) Owner() Source {
	if r == nil {
		return nil
	}
	return r.Source
}

func (r *Record) Kind() Kind {
	if r == nil {
		return ""
	}
	return r.Type
}

func (*Record) event() {}

// Get returns a payload value.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.Payload[key]
	return v, ok
}

// Bare is an event that carries only its source, as sent by a button click.
type Bare struct {
	Source
}

func (b Bare) Owner() Source { return b.Source }
func (Bare) Kind() Kind      { return Click }
func (Bare) event()          {}
