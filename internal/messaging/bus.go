// Package messaging fans game events out to the connections attached to a
// session. Every session gets its own bus; publishers never block on a slow
// subscriber.
package messaging

import "sync"

// Scope narrows who a published event is for. Every subscriber receives
// every event and filters by scope on its own side.
type Scope int

const (
	ScopeBroadcast Scope = iota
	ScopeHostOnly
	ScopePlayerOnly
)

// GameEvent is one serialized frame plus its routing scope. PlayerID is set
// only for player scoped events.
type GameEvent struct {
	Scope    Scope
	PlayerID string
	Message  string
}

const subscriberBuffer = 256

// Subscriber drains C until the bus closes it. A subscriber that falls
// subscriberBuffer events behind is evicted.
type Subscriber struct {
	C chan GameEvent
}

type Bus struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
	closed      bool
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[*Subscriber]struct{})}
}

func (b *Bus) Subscribe() *Subscriber {
	sub := &Subscriber{C: make(chan GameEvent, subscriberBuffer)}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.C)
		return sub
	}
	b.subscribers[sub] = struct{}{}
	return sub
}

func (b *Bus) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[sub]; !ok {
		return
	}
	delete(b.subscribers, sub)
	close(sub.C)
}

// Publish delivers the event to every subscriber, dropping any subscriber
// whose buffer is full.
func (b *Bus) Publish(event GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for sub := range b.subscribers {
		select {
		case sub.C <- event:
		default:
			delete(b.subscribers, sub)
			close(sub.C)
		}
	}
}

func (b *Bus) Broadcast(message string) {
	b.Publish(GameEvent{Scope: ScopeBroadcast, Message: message})
}

func (b *Bus) HostOnly(message string) {
	b.Publish(GameEvent{Scope: ScopeHostOnly, Message: message})
}

func (b *Bus) PlayerOnly(playerID, message string) {
	b.Publish(GameEvent{Scope: ScopePlayerOnly, PlayerID: playerID, Message: message})
}

// Close evicts every subscriber and makes further publishes no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subscribers {
		delete(b.subscribers, sub)
		close(sub.C)
	}
}

// BusRegistry maps join codes to session buses.
type BusRegistry struct {
	mu    sync.Mutex
	buses map[string]*Bus
}

func NewBusRegistry() *BusRegistry {
	return &BusRegistry{buses: make(map[string]*Bus)}
}

// Ensure returns the bus for the join code, creating it if needed.
func (r *BusRegistry) Ensure(joinCode string) *Bus {
	r.mu.Lock()
	defer r.mu.Unlock()
	bus, ok := r.buses[joinCode]
	if !ok {
		bus = NewBus()
		r.buses[joinCode] = bus
	}
	return bus
}

func (r *BusRegistry) Get(joinCode string) *Bus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buses[joinCode]
}

// Remove evicts the bus for the join code, closing it so any attached
// connections drop.
func (r *BusRegistry) Remove(joinCode string) {
	r.mu.Lock()
	bus := r.buses[joinCode]
	delete(r.buses, joinCode)
	r.mu.Unlock()
	if bus != nil {
		bus.Close()
	}
}
