// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// ChangedEvent is published when a value was handed out for mutation
	// with notification requested.
	ChangedEvent EventType = "changed"
	// LoadedEvent is published after a value was (re)loaded from storage.
	LoadedEvent EventType = "loaded"
	// SavedEvent is published after a value was written to storage.
	SavedEvent EventType = "saved"
	// LogEvent carries a formatted log line.
	LogEvent EventType = "log"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
