// Package event provides the in-process domain event bus.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/lumio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned when publishing to a bus that is not running
var ErrBusStopped = errors.New("event bus is not running")

const defaultQueueSize = 256

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// AsyncEventBus delivers events to subscribers on a single background
// goroutine, in publish order. Stop drains queued events before returning.
type AsyncEventBus struct {
	registry *registry
	logger   *zap.Logger
	queue    chan envelope

	mu      sync.RWMutex
	running bool
	done    chan struct{}
}

// Option configures an AsyncEventBus
type Option func(*AsyncEventBus)

// WithQueueSize sets the publish buffer size
func WithQueueSize(n int) Option {
	return func(b *AsyncEventBus) {
		if n > 0 {
			b.queue = make(chan envelope, n)
		}
	}
}

// NewAsyncEventBus creates a stopped bus
func NewAsyncEventBus(logger *zap.Logger, opts ...Option) *AsyncEventBus {
	b := &AsyncEventBus{
		registry: newRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.queue == nil {
		b.queue = make(chan envelope, defaultQueueSize)
	}
	return b
}

// Publish queues events for delivery. Handlers see a context detached from
// the caller's cancellation so request completion does not abort them.
func (b *AsyncEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.running {
		return ErrBusStopped
	}
	detached := context.WithoutCancel(ctx)
	for _, ev := range events {
		select {
		case b.queue <- envelope{ctx: detached, event: ev}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for the handler's own
// EventTypes when none are given
func (b *AsyncEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler from every event type
func (b *AsyncEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.unregister(handler)
}

// Start launches the delivery goroutine
func (b *AsyncEventBus) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return nil
	}
	b.running = true
	b.done = make(chan struct{})
	go b.loop(b.queue, b.done)
	b.logger.Info("event bus started")
	return nil
}

// Stop refuses new events, delivers what is queued and waits for the
// delivery goroutine, or for ctx to expire
func (b *AsyncEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = false
	queue, done := b.queue, b.done
	b.queue = make(chan envelope, cap(queue))
	close(queue)
	b.mu.Unlock()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *AsyncEventBus) loop(queue <-chan envelope, done chan<- struct{}) {
	defer close(done)
	for env := range queue {
		for _, h := range b.registry.handlersFor(env.event.EventType()) {
			if err := b.dispatch(env.ctx, h, env.event); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", env.event.EventType()),
					zap.String("event_id", env.event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
}

func (b *AsyncEventBus) dispatch(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", ev.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return h.Handle(ctx, ev)
}

var _ shared.EventBus = (*AsyncEventBus)(nil)
