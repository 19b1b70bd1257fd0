// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lockq provides a mutex-guarded bounded FIFO queue.
//
// It is the baseline the lock-free queue is measured against: the same
// ring layout, the same N-1 usable capacity and the same full and empty
// semantics, with every operation serialized by one [sync.Mutex].
// Any number of goroutines may use a Queue.
package lockq

import (
	"sync"

	"code.hybscloud.com/spsc"
)

// Queue is a bounded FIFO protected by a mutex.
type Queue[T any] struct {
	mu    sync.Mutex
	slots []T
	mask  int
	head  int // next slot to pop
	tail  int // next slot to push
}

// New creates a queue with capacity slots, holding up to capacity-1 items.
//
// Capacity must be a power of 2 and at least 2, matching [spsc.NewCore].
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 2 {
		return nil, &spsc.ConfigError{Param: "capacity", Value: capacity, Reason: "must be >= 2"}
	}
	if capacity&(capacity-1) != 0 {
		return nil, &spsc.ConfigError{Param: "capacity", Value: capacity, Reason: "must be a power of 2"}
	}
	return &Queue[T]{slots: make([]T, capacity), mask: capacity - 1}, nil
}

// TryPush adds an element or returns [spsc.ErrFull].
func (q *Queue[T]) TryPush(item T) error {
	q.mu.Lock()
	next := (q.tail + 1) & q.mask
	if next == q.head {
		q.mu.Unlock()
		return spsc.ErrFull
	}
	q.slots[q.tail] = item
	q.tail = next
	q.mu.Unlock()
	return nil
}

// Push is TryPush; a mutex queue has nothing to wait on without blocking.
func (q *Queue[T]) Push(item T) error {
	return q.TryPush(item)
}

// PushBatch adds the longest prefix of items that fits and returns its
// length.
func (q *Queue[T]) PushBatch(items []T) int {
	q.mu.Lock()
	n := 0
	for ; n < len(items); n++ {
		next := (q.tail + 1) & q.mask
		if next == q.head {
			break
		}
		q.slots[q.tail] = items[n]
		q.tail = next
	}
	q.mu.Unlock()
	return n
}

// TryPop removes the oldest element.
// Returns (zero-value, false) if the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	q.mu.Lock()
	if q.head == q.tail {
		q.mu.Unlock()
		return zero, false
	}
	item := q.slots[q.head]
	q.slots[q.head] = zero
	q.head = (q.head + 1) & q.mask
	q.mu.Unlock()
	return item, true
}

// Pop is TryPop.
func (q *Queue[T]) Pop() (T, bool) {
	return q.TryPop()
}

// PopInto moves up to len(dst) elements into dst and returns the count.
func (q *Queue[T]) PopInto(dst []T) int {
	var zero T
	q.mu.Lock()
	n := 0
	for ; n < len(dst) && q.head != q.tail; n++ {
		dst[n] = q.slots[q.head]
		q.slots[q.head] = zero
		q.head = (q.head + 1) & q.mask
	}
	q.mu.Unlock()
	return n
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	n := (q.tail - q.head) & q.mask
	q.mu.Unlock()
	return n
}

// Cap returns the usable capacity, N-1.
func (q *Queue[T]) Cap() int {
	return q.mask
}

var (
	_ spsc.Pusher[int] = (*Queue[int])(nil)
	_ spsc.Popper[int] = (*Queue[int])(nil)
)
