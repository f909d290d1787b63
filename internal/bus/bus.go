// Package bus provides the viewer's internal event bus for component communication
package bus

import (
	"sync"
)

// EventType identifies different event types
type EventType string

// Event types for the camera core
const (
	// Host input commands: frame, reset, playPause, cancel, interrupt
	EventTypeInput EventType = "camera.input"

	// Resolved pick location in world space
	EventTypePick EventType = "camera.pick"

	// Timeline scrub to an absolute animation time
	EventTypeScrubAnim EventType = "camera.scrub_anim"

	// Explicit navigation mode request
	EventTypeSetMode EventType = "camera.set_mode"

	// Emitted after the active navigation mode changed
	EventTypeCameraModeChanged EventType = "camera.mode_changed"
)

// Event represents a bus event. Payload types are owned by the publisher.
type Event struct {
	Type    EventType
	Payload any
}

// Handler is a function that handles events
type Handler func(Event)

// EventBus is a synchronous pub/sub bus. Handlers run on the publishing
// goroutine in subscription order, so a frame-stepped owner sees every
// event applied before Publish returns.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for an event type
func (b *EventBus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeMultiple adds a handler for multiple event types
func (b *EventBus) SubscribeMultiple(eventTypes []EventType, handler Handler) {
	for _, et := range eventTypes {
		b.Subscribe(et, handler)
	}
}

// Publish delivers an event to all subscribed handlers and returns once
// they have run. Handlers may publish further events.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type]))
	copy(handlers, b.handlers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Clear removes all handlers
func (b *EventBus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[EventType][]Handler)
}
