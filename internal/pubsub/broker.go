// Package pubsub is the process-wide change feed. Services publish change
// events after successful writes; subscription transports subscribe to it.
package pubsub

import (
	"context"
	"log/slog"
	"sync"

	"virtualbarcamp/internal/domain"
)

// DefaultBufferSize is the per-subscriber buffer used when none is configured.
const DefaultBufferSize = 64

type subscriber struct {
	id     uint64
	events chan domain.ChangeEvent
}

// Broker fans every published change event out to all current subscribers.
// Publish never blocks: a subscriber whose buffer is full is dropped and its
// channel closed, so one stalled client cannot hold up writers.
type Broker struct {
	logger     *slog.Logger
	bufferSize int

	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint64]*subscriber
	closed      bool
}

// NewBroker returns a Broker with the given per-subscriber buffer size.
func NewBroker(logger *slog.Logger, bufferSize int) *Broker {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &Broker{
		logger:      logger,
		bufferSize:  bufferSize,
		subscribers: make(map[uint64]*subscriber),
	}
}

// Subscribe registers a new subscriber. The returned cancel func is idempotent.
// On a closed broker the channel is returned already closed.
func (b *Broker) Subscribe() (<-chan domain.ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := make(chan domain.ChangeEvent, b.bufferSize)
	if b.closed {
		close(events)
		return events, func() {}
	}
	b.nextID++
	sub := &subscriber{id: b.nextID, events: events}
	b.subscribers[sub.id] = sub

	return events, func() { b.remove(sub.id) }
}

// Publish delivers event to every subscriber without blocking.
func (b *Broker) Publish(ctx context.Context, event domain.ChangeEvent) {
	if event == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subscribers {
		select {
		case sub.events <- event:
		default:
			delete(b.subscribers, id)
			close(sub.events)
			b.logger.WarnContext(ctx, "dropping slow change feed subscriber", "subscriber", id, "buffer", b.bufferSize)
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel. Later subscriptions get a closed channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, sub := range b.subscribers {
		delete(b.subscribers, id)
		close(sub.events)
	}
}

func (b *Broker) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(sub.events)
	}
}
