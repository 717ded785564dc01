// Package queue defines the contract for enqueuing and consuming
// measurements awaiting batch classification.
package queue

import (
	"context"
	"sync"

	"github.com/okian/fetalbio/internal/domain/model"
	"github.com/okian/fetalbio/pkg/metrics"
)

// Default queue configuration constants.
const defaultCapacity = 10000

// Measurement is the payload type flowing through the queue.
type Measurement = model.Measurement

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a measurement to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, m Measurement) bool

	// Dequeue returns a channel receiving measurements as they arrive.
	// The channel is closed when the queue closes.
	Dequeue(ctx context.Context) <-chan Measurement

	// Len returns the current number of queued measurements.
	Len(ctx context.Context) int

	// Close shuts the queue down; no further enqueues are accepted.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Measurement
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Measurement, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds a measurement to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, m Measurement) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	// Non-blocking by construction: with a default arm the send either
	// succeeds immediately or the item is rejected, so no context arm is
	// needed here.
	select {
	case q.items <- m:
		q.updateGauges()
		return true
	default:
		// Full: reject rather than block the caller.
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns the receive channel backing the queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Measurement {
	return q.items
}

// Len returns the current number of queued measurements.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.items)
}

// Close shuts down the queue. Queued measurements remain readable until
// the channel drains.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.closed = true
	close(q.items)
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateGauges() {
	n := len(q.items)
	metrics.UpdateQueueSize(n)
	if q.capacity > 0 {
		metrics.UpdateQueueUtilization(float64(n) / float64(q.capacity))
	}
}
