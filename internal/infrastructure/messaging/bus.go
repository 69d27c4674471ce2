// Package messaging fans domain events out to in-process handlers and to
// the shipment event topic.
package messaging

import (
	"context"
	"sync"

	"github.com/parcelco/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultQueueSize = 256

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// EventBus dispatches published events to subscribed handlers. Before Start
// and after Stop handlers run inline in Publish; while started they run on
// background workers. Handler failures are logged and never reach the
// publisher.
type EventBus struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler

	queueMu sync.RWMutex
	queue   chan envelope
	wg      sync.WaitGroup
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		logger:   logger,
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Subscribe registers a handler for the event types it declares. A handler
// declaring no types receives every event.
func (b *EventBus) Subscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	types := handler.EventTypes()
	if len(types) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", types))
}

// Unsubscribe removes a handler from every event type
func (b *EventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = without(b.wildcard, handler)
	for t, hs := range b.handlers {
		if hs = without(hs, handler); len(hs) == 0 {
			delete(b.handlers, t)
		} else {
			b.handlers[t] = hs
		}
	}
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := handlers[:0:0]
	for _, h := range handlers {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

func (b *EventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.handlers[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	out = append(out, typed...)
	return append(out, b.wildcard...)
}

// Publish hands events to their handlers. It always returns nil.
func (b *EventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		if !b.enqueue(ctx, event) {
			b.dispatch(ctx, event)
		}
	}
	return nil
}

// enqueue detaches the event from the request's cancellation so handlers
// finish after the response is written
func (b *EventBus) enqueue(ctx context.Context, event shared.DomainEvent) bool {
	b.queueMu.RLock()
	defer b.queueMu.RUnlock()

	if b.queue == nil {
		return false
	}
	select {
	case b.queue <- envelope{ctx: context.WithoutCancel(ctx), event: event}:
		return true
	default:
		b.logger.Warn("event queue full, dispatching inline",
			zap.String("event_type", event.EventType()))
		return false
	}
}

func (b *EventBus) dispatch(ctx context.Context, event shared.DomainEvent) {
	for _, h := range b.handlersFor(event.EventType()) {
		if err := b.safeHandle(ctx, h, event); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *EventBus) safeHandle(ctx context.Context, h shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return h.Handle(ctx, event)
}

// Start launches the given number of dispatch workers
func (b *EventBus) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	if b.queue != nil {
		return
	}
	q := make(chan envelope, defaultQueueSize)
	b.queue = q
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for env := range q {
				b.dispatch(env.ctx, env.event)
			}
		}()
	}
	b.logger.Info("event bus started", zap.Int("workers", workers))
}

// Stop drains queued events, waiting until ctx is done at the latest
func (b *EventBus) Stop(ctx context.Context) error {
	b.queueMu.Lock()
	q := b.queue
	b.queue = nil
	b.queueMu.Unlock()
	if q == nil {
		return nil
	}
	close(q)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ shared.EventPublisher = (*EventBus)(nil)
