package event

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/opdss/nbkit/contracts/event"
)

// ErrNotFound is returned when no binding exists for a (source, kind) pair.
var ErrNotFound = errs.Class("binding not found")

var _ event.Dispatcher = (*Dispatcher)(nil)

// Key identifies a binding.
type Key struct {
	Source string
	Kind   event.Kind
}

func (k Key) String() string {
	return k.Source + "/" + string(k.Kind)
}

// Dispatcher is the single entry point widgets send their events to.
// The zero value is not usable, use NewDispatcher.
type Dispatcher struct {
	mu       sync.RWMutex
	bindings map[Key]Command
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		bindings: make(map[Key]Command),
		logger:   logger,
	}
}

// Register binds h to (src, kind), replacing any previous binding.
// A nil source or handler cannot be dispatched to and is ignored.
func (d *Dispatcher) Register(src event.Source, h event.Handler, kind event.Kind) {
	id, ok := sourceID(src)
	if !ok || h == nil {
		d.logger.Warn("binding ignored, missing source or handler", zap.String("Kind", string(kind)))
		return
	}
	key := Key{Source: id, Kind: kind}
	cmd := NewCommand(kind, h)

	d.mu.Lock()
	_, replaced := d.bindings[key]
	d.bindings[key] = cmd
	d.mu.Unlock()

	d.logger.Debug("binding registered",
		zap.Stringer("Key", key),
		zap.Bool("Replaced", replaced))
}

// RegisterFunc is Register for plain functions.
func (d *Dispatcher) RegisterFunc(src event.Source, fn func(event.Event), kind event.Kind) {
	d.Register(src, event.HandlerFunc(fn), kind)
}

// Unregister removes the binding for (src, kind).
func (d *Dispatcher) Unregister(src event.Source, kind event.Kind) error {
	id, ok := sourceID(src)
	if !ok {
		return ErrNotFound.New("nil source")
	}
	key := Key{Source: id, Kind: kind}

	d.mu.Lock()
	_, ok = d.bindings[key]
	delete(d.bindings, key)
	d.mu.Unlock()

	if !ok {
		return ErrNotFound.New("%s", key)
	}
	d.logger.Debug("binding removed", zap.Stringer("Key", key))
	return nil
}

// Dispatch looks up the binding for evt and runs its command. A record is looked up
// by (owner, type), a bare source by (source, click). The command itself may decline
// an event of the wrong shape, which is not an error.
func (d *Dispatcher) Dispatch(evt event.Event) error {
	if evt == nil {
		return ErrNotFound.New("nil event")
	}
	id, ok := sourceID(evt.Owner())
	if !ok {
		return ErrNotFound.New("event without source")
	}
	key := Key{Source: id, Kind: evt.Kind()}

	d.mu.RLock()
	cmd, ok := d.bindings[key]
	d.mu.RUnlock()

	if !ok {
		return ErrNotFound.New("%s", key)
	}
	// handlers run unlocked so they may change bindings themselves
	if !cmd.Execute(evt) {
		d.logger.Debug("event shape rejected by command",
			zap.Stringer("Key", key),
			zap.String("Event", eventName(evt)))
	}
	return nil
}

// Bound reports whether (src, kind) has a binding.
func (d *Dispatcher) Bound(src event.Source, kind event.Kind) bool {
	id, ok := sourceID(src)
	if !ok {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok = d.bindings[Key{Source: id, Kind: kind}]
	return ok
}

// Bindings returns the registered keys ordered by source then kind.
func (d *Dispatcher) Bindings() []Key {
	d.mu.RLock()
	keys := maps.Keys(d.bindings)
	d.mu.RUnlock()

	slices.SortFunc(keys, func(a, b Key) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return strings.Compare(string(a.Kind), string(b.Kind))
	})
	return keys
}

func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.bindings)
}

// Clear drops every binding.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	d.bindings = make(map[Key]Command)
	d.mu.Unlock()
}

func eventName(evt event.Event) string {
	switch evt.(type) {
	case *event.Record:
		return "record"
	case event.Bare:
		return "bare"
	default:
		return "unknown"
	}
}

// sourceID returns the id of src, or false for a nil source, including a nil
// pointer stored in the interface.
func sourceID(src event.Source) (string, bool) {
	if src == nil {
		return "", false
	}
	if v := reflect.ValueOf(src); v.Kind() == reflect.Ptr && v.IsNil() {
		return "", false
	}
	return src.ID(), true
}
