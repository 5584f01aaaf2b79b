package notify

import (
	"context"
	"sync"
)

// Bus is an in-process Channel implementation. It backs tests and single-node
// deployments where the store and the terminal share a process boundary.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]subscriber // table -> id -> subscriber
}

type subscriber struct {
	filter  string
	handler Handler
}

// NewBus creates an empty in-process bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]subscriber)}
}

var _ Channel = (*Bus)(nil)

// Subscribe registers a handler for a table, optionally filtered by key.
func (b *Bus) Subscribe(_ context.Context, table string, filter string, handler Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[table] == nil {
		b.subs[table] = make(map[int]subscriber)
	}
	b.nextID++
	id := b.nextID
	b.subs[table][id] = subscriber{filter: filter, handler: handler}
	return &busSubscription{bus: b, table: table, id: id}, nil
}

// Publish delivers an event synchronously to every matching subscriber.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	var handlers []Handler
	for _, sub := range b.subs[event.Table] {
		if sub.filter == "" || sub.filter == event.Key {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

type busSubscription struct {
	bus   *Bus
	table string
	id    int
	once  sync.Once
}

func (s *busSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		delete(s.bus.subs[s.table], s.id)
	})
}
