package pubsub

import "context"

// Listener wraps a broker subscription for callers that want to pull events
// one at a time instead of ranging over a channel.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewListener subscribes to broker for the lifetime of ctx.
func NewListener[T any](ctx context.Context, broker *Broker[T]) *Listener[T] {
	return &Listener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx),
	}
}

// Next blocks until the next event arrives.
// It returns false once the context is cancelled or the subscription closed.
func (l *Listener[T]) Next() (Event[T], bool) {
	select {
	case <-l.ctx.Done():
		return Event[T]{}, false
	case event, ok := <-l.ch:
		return event, ok
	}
}

// C exposes the underlying subscription channel.
func (l *Listener[T]) C() <-chan Event[T] {
	return l.ch
}
