package shared

import "context"

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventPublisherFunc adapts a function to EventPublisher
type EventPublisherFunc func(ctx context.Context, events ...DomainEvent) error

// Publish calls f
func (f EventPublisherFunc) Publish(ctx context.Context, events ...DomainEvent) error {
	return f(ctx, events...)
}

// EventHandler handles domain events of the types it declares
type EventHandler interface {
	// EventTypes returns the event types this handler subscribes to; empty means all
	EventTypes() []string

	// Handle processes one event
	Handle(ctx context.Context, event DomainEvent) error
}
