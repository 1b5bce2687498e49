package events

import "sync"

// Handler receives one event. Handlers run on their own goroutines; a slow
// handler never blocks the publisher or other handlers.
type Handler func(Event)

// Bus is a fire-and-forget publish/subscribe hub. Delivery is at most once;
// there is no replay for subscribers that arrive late.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish dispatches the event to all matching handlers and returns
// immediately.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	matched := make([]Handler, 0, len(b.handlers[ev.Type])+len(b.all))
	matched = append(matched, b.handlers[ev.Type]...)
	matched = append(matched, b.all...)
	b.mu.RUnlock()

	for _, h := range matched {
		go h(ev)
	}
}
