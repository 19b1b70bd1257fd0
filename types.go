// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Pusher is the producer-side contract of a bounded FIFO queue.
//
// [Producer] implements it. The interface lets callers and benchmark
// harnesses swap in other bounded queues with the same semantics.
//
// Example:
//
//	func emit[T any](p spsc.Pusher[T], items []T) (sent int) {
//	    for sent < len(items) && p.Push(items[sent]) == nil {
//	        sent++
//	    }
//	    return sent
//	}
type Pusher[T any] interface {
	// Push adds an element, waiting a bounded time for space.
	// Returns ErrFull if the queue stayed full; the caller keeps item.
	Push(item T) error

	// TryPush adds an element without waiting.
	// Returns ErrFull immediately if the queue is full.
	TryPush(item T) error

	// PushBatch adds the longest prefix of items that fits without
	// waiting and returns its length.
	PushBatch(items []T) int
}

// Popper is the consumer-side contract of a bounded FIFO queue.
//
// [Consumer] implements it. An empty queue is reported through the boolean
// result, never as an error.
type Popper[T any] interface {
	// Pop removes the oldest element, waiting a bounded time for one.
	// Returns (zero-value, false) if the queue stayed empty.
	Pop() (T, bool)

	// TryPop removes the oldest element without waiting.
	TryPop() (T, bool)

	// PopInto moves up to len(dst) elements into dst without waiting
	// and returns how many were moved.
	PopInto(dst []T) int
}

var (
	_ Pusher[int] = (*Producer[int])(nil)
	_ Popper[int] = (*Consumer[int])(nil)
)
