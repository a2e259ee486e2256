package event

// Handler processes specific event types
// Handlers run synchronously inside the tick and must not block
type Handler interface {
	// EventTypes returns the event types this handler processes
	EventTypes() []EventType

	// HandleEvent processes a single event
	HandleEvent(ev GameEvent)
}

// HandlerFunc adapts a function to a Handler for a fixed set of types
type HandlerFunc struct {
	Types []EventType
	Fn    func(ev GameEvent)
}

// EventTypes returns the registered types
func (h HandlerFunc) EventTypes() []EventType { return h.Types }

// HandleEvent calls Fn
func (h HandlerFunc) HandleEvent(ev GameEvent) { h.Fn(ev) }

// Router dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch at the end of each tick
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Router struct {
	handlers map[EventType][]Handler
	queue    *EventQueue
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *EventQueue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(h Handler) {
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// DispatchAll consumes all pending events and routes them in FIFO order
// Returns the number of events consumed
func (r *Router) DispatchAll() int {
	events := r.queue.Consume()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
