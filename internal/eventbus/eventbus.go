package eventbus

import (
	"runtime/debug"
	"sync"

	"soturidash/internal/domain"
	"soturidash/internal/logging"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventPlayerUpdated      = domain.EventPlayerUpdated
	EventPlayerRemoved      = domain.EventPlayerRemoved
	EventEnemiesAppeared    = domain.EventEnemiesAppeared
	EventEnemiesDisappeared = domain.EventEnemiesDisappeared
	EventSnapshotLoaded     = domain.EventSnapshotLoaded
	EventEntitiesCleared    = domain.EventEntitiesCleared
	EventConnectionChanged  = domain.EventConnectionChanged
	EventServerVersion      = domain.EventServerVersion
	EventError              = domain.EventError
	EventConfigChanged      = domain.EventConfigChanged
)

// Re-export domain event types
type PlayerUpdatedEvent = domain.PlayerUpdatedEvent
type PlayerRemovedEvent = domain.PlayerRemovedEvent
type EnemiesAppearedEvent = domain.EnemiesAppearedEvent
type EnemiesDisappearedEvent = domain.EnemiesDisappearedEvent
type SnapshotLoadedEvent = domain.SnapshotLoadedEvent
type EntitiesClearedEvent = domain.EntitiesClearedEvent
type ConnectionChangedEvent = domain.ConnectionChangedEvent
type ServerVersionEvent = domain.ServerVersionEvent
type ErrorEvent = domain.ErrorEvent
type ConfigChangedEvent = domain.ConfigChangedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Position updates arrive every second per player
	switch event.Type() {
	case EventPlayerUpdated:
	default:
		logging.Log.WithField("event", event.Type()).Debug("EventBus: publishing event")
	}

	select {
	case b.eventChan <- event:
	default:
		logging.Log.WithField("event", event.Type()).Warn("Event bus channel full, dropping event")
	}
}

// Subscribe subscribes to events of a specific type.
// The returned function removes the subscription; calling it twice is harmless.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and drops undelivered events
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				// Call handler in a goroutine to avoid blocking
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							logging.Log.Errorf("Event handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
						}
					}()
					h(event)
				}(s.handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
