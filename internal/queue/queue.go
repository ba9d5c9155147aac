// Package queue provides a fixed-capacity thread-safe FIFO. When full, Push
// overwrites the oldest item so producers never block.
package queue

import (
	"sync"
)

// Queue is a generic thread-safe ring buffer.
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	head    int
	size    int
	dropped int
}

// New creates an empty queue that holds at most capacity items.
// A capacity below 1 is raised to 1.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{
		items: make([]T, capacity),
	}
}

// Push appends items, overwriting the oldest ones once the queue is full.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, item := range items {
		tail := (q.head + q.size) % len(q.items)
		q.items[tail] = item
		if q.size == len(q.items) {
			q.head = (q.head + 1) % len(q.items)
			q.dropped++
			continue
		}
		q.size++
	}
}

// Pop removes and returns the oldest item. ok is false if the queue is empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return item, false
	}
	item = q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// Empty returns true if the queue has no items.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the fixed capacity.
func (q *Queue[T]) Cap() int {
	return len(q.items)
}

// Dropped returns how many items were overwritten since creation.
func (q *Queue[T]) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Clear removes all items from the queue.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.items)
	q.head = 0
	q.size = 0
}

// GetAndEmpty returns all items oldest first and clears the queue.
func (q *Queue[T]) GetAndEmpty() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := make([]T, q.size)
	for i := range result {
		result[i] = q.items[(q.head+i)%len(q.items)]
	}
	clear(q.items)
	q.head = 0
	q.size = 0
	return result
}
