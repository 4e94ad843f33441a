package event

// Dispatcher routes events to the handler bound to (source, kind).
type Dispatcher interface {
	Register(Source, Handler, Kind)
	Unregister(Source, Kind) error
	Dispatch(Event) error
}

type Handler interface {
	Handle(Event)
}

type HandlerFunc func(Event)

func (f HandlerFunc) Handle(evt Event) {
	f(evt)
}
