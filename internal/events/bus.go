// Package events provides an in-process publish/subscribe bus for todo
// item change notifications, consumed by the WebSocket event stream.
package events

import (
	"sync"
	"time"
)

// EventType identifies the kind of item change.
type EventType string

// Item change event types.
const (
	ItemCreated EventType = "item_created"
	ItemUpdated EventType = "item_updated"
	ItemDeleted EventType = "item_deleted"
)

// ItemEvent describes a single change to a todo item. Item carries the
// external representation of the affected item at the time of the change.
type ItemEvent struct {
	Type      EventType `json:"type"`
	ItemID    int64     `json:"item_id"`
	Item      any       `json:"item,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus fans item events out to subscribers. Publish never blocks: events
// for a subscriber whose buffer is full are dropped.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan ItemEvent
	nextID int
}

// NewBus creates a new Bus instance.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan ItemEvent),
	}
}

// Subscribe registers a subscriber with the given buffer size and returns
// its event channel together with a cancel function. The channel is closed
// when the cancel function is called.
func (b *Bus) Subscribe(buffer int) (<-chan ItemEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}

	ch := make(chan ItemEvent, buffer)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// Publish delivers the event to every subscriber that has buffer space.
func (b *Bus) Publish(ev ItemEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
