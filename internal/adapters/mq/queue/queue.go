// Package queue provides the bounded in-memory outboxes that sit between the
// allocator and the downstream gateways.
//
// By default Enqueue never blocks and a full outbox rejects the message.
// Outboxes built WithBackpressure instead hold the producer until a
// dispatcher makes room, so a batch never loses a hand-off to a slow
// downstream.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/staffing/pkg/metrics"
)

const defaultCapacity = 1024

// Queue provides bounded enqueue and channel-based dequeue semantics.
type Queue[T any] interface {
	// Enqueue adds a message. It fails with ErrClosed, with ErrFull when the
	// queue rejects instead of waiting, or with the context error.
	Enqueue(ctx context.Context, msg T) error

	// Dequeue returns a channel that receives messages until the queue is
	// closed and drained, or ctx is done.
	Dequeue(ctx context.Context) <-chan T

	// Len returns the current number of pending messages.
	Len() int

	// Close stops accepting messages. Pending messages remain dequeueable.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue[T any] struct {
	name     string
	messages chan T
	capacity int
	block    bool

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a named outbox. The name labels its metrics.
func NewInMemoryQueue[T any](name string, opts ...Option) *InMemoryQueue[T] {
	o := options{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}

	q := &InMemoryQueue[T]{
		name:     name,
		messages: make(chan T, o.capacity),
		capacity: o.capacity,
		block:    o.block,
	}
	metrics.UpdateOutboxDepth(name, 0)
	return q
}

// Name returns the outbox name.
func (q *InMemoryQueue[T]) Name() string { return q.name }

// Capacity returns the maximum number of pending messages.
func (q *InMemoryQueue[T]) Capacity() int { return q.capacity }

// Enqueue adds a message to the outbox. A back-pressured outbox waits for
// room while holding off Close, so Close must not be called by a goroutine
// that is still producing.
func (q *InMemoryQueue[T]) Enqueue(ctx context.Context, msg T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordOutboxDropped(q.name, "closed")
		return fmt.Errorf("%w: %s", ErrClosed, q.name)
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordOutboxDropped(q.name, "context_cancelled")
		return fmt.Errorf("enqueue on %s: %w", q.name, err)
	}

	if q.block {
		select {
		case q.messages <- msg:
			q.accepted()
			return nil
		case <-ctx.Done():
			metrics.RecordOutboxDropped(q.name, "context_cancelled")
			return fmt.Errorf("enqueue on %s: %w", q.name, ctx.Err())
		}
	}

	select {
	case q.messages <- msg:
		q.accepted()
		return nil
	default:
		metrics.RecordOutboxDropped(q.name, "full")
		return fmt.Errorf("%w: %s holds %d messages", ErrFull, q.name, q.capacity)
	}
}

func (q *InMemoryQueue[T]) accepted() {
	metrics.RecordOutboxEnqueued(q.name)
	metrics.UpdateOutboxDepth(q.name, len(q.messages))
}

// Dequeue returns a channel fed from the outbox. Several consumers may each
// call Dequeue; every message is delivered to exactly one of them.
func (q *InMemoryQueue[T]) Dequeue(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for msg := range q.messages {
			select {
			case out <- msg:
				metrics.UpdateOutboxDepth(q.name, len(q.messages))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of pending messages.
func (q *InMemoryQueue[T]) Len() int {
	return len(q.messages)
}

// Close stops accepting messages. Closing twice is a no-op.
func (q *InMemoryQueue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.messages)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue[T]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
