package engine

import (
	"log/slog"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// Subscription is a handle returned by Subscribe, used to unregister.
type Subscription int

// eventBus is the append-only log plus the subscriber set.
//
// Delivery is synchronous and in emission order: subscribers are
// notified inline before the emitting operation returns, under the
// engine lock. Handlers must therefore be fast and must not call back
// into the engine.
type eventBus struct {
	log    []yard.Event
	subs   map[Subscription]func(yard.Event)
	nextID Subscription
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[Subscription]func(yard.Event))}
}

func (b *eventBus) subscribe(fn func(yard.Event)) Subscription {
	b.nextID++
	b.subs[b.nextID] = fn
	return b.nextID
}

func (b *eventBus) unsubscribe(id Subscription) {
	delete(b.subs, id)
}

// append records the event and notifies every registered subscriber.
// The log is append-only: events are never removed or mutated.
func (b *eventBus) append(ev yard.Event) {
	b.log = append(b.log, ev)
	for _, fn := range b.subs {
		fn(ev)
	}
}

// Subscribe registers a handler for every future event.
// The handler runs synchronously on the emitting goroutine and must not
// call back into the engine (the engine lock is held during delivery).
func (e *Engine) Subscribe(fn func(yard.Event)) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bus.subscribe(fn)
}

// Unsubscribe removes a previously registered handler.
func (e *Engine) Unsubscribe(id Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bus.unsubscribe(id)
}

// Events returns a copy of the full event log.
func (e *Engine) Events() []yard.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]yard.Event, len(e.bus.log))
	copy(out, e.bus.log)
	return out
}

// emit builds an event from the logical clock and current simulation
// time, appends it to the log, and notifies subscribers.
// Caller must hold e.mu.
func (e *Engine) emit(typ yard.EventType, trainID string, severity yard.Severity, message string, data map[string]any) {
	ev := yard.Event{
		ID:        e.ids.Generate(),
		Seq:       e.seq.Next(),
		Timestamp: e.clock.Now(),
		Type:      typ,
		TrainID:   trainID,
		Message:   message,
		Severity:  severity,
		Data:      data,
	}
	e.bus.append(ev)
	slog.Debug("event emitted",
		"seq", ev.Seq,
		"type", string(ev.Type),
		"train", ev.TrainID,
		"severity", string(ev.Severity),
	)
}
