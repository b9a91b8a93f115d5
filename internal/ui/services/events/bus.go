package events

import (
	"fmt"
	"sync"
)

type listener struct {
	id      uint64
	handler func(interface{})
}

// Bus is a synchronous event bus for UI services. Handlers run inside
// Publish, on the Bubble Tea update goroutine.
type Bus struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[string][]listener
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]listener),
	}
}

// Subscribe registers a listener for an event type and returns its release function
func (b *Bus) Subscribe(eventType string, handler func(interface{})) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners[eventType] = append(b.listeners[eventType], listener{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		ls := b.listeners[eventType]
		for i, l := range ls {
			if l.id == id {
				b.listeners[eventType] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all listeners of its type
func (b *Bus) Publish(event interface{}) {
	b.mu.RLock()
	ls := make([]listener, len(b.listeners[EventName(event)]))
	copy(ls, b.listeners[EventName(event)])
	b.mu.RUnlock()

	for _, l := range ls {
		l.handler(event)
	}
}

// EventName is the subscription key of an event: its Go type name
func EventName(event interface{}) string {
	return fmt.Sprintf("%T", event)
}
