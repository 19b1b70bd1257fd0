// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Consumer is the read side of a [Core], obtained from [Core.Split].
//
// It is the sole writer of R and of the slot at R, and only ever reads W.
// Exactly one goroutine may use a Consumer; do not share it.
type Consumer[T any] struct {
	core  *Core[T]
	guard useGuard
}

// TryPop removes and returns the oldest element without spinning.
// Returns (zero-value, false) if the queue is empty.
func (c *Consumer[T]) TryPop() (T, bool) {
	c.guard.enter("TryPop")
	item, ok := c.core.tryPop()
	c.guard.exit()
	return item, ok
}

// Pop removes and returns the oldest element, spinning briefly while the
// queue is empty.
//
// When nothing is queued, Pop re-reads the producer's cursor after 1, 2,
// 4, ... CPU pause hints up to the core's spin limit, then returns
// (zero-value, false). An empty result is not an error and leaves the
// queue unchanged.
func (c *Consumer[T]) Pop() (T, bool) {
	c.guard.enter("Pop")
	item, ok := c.core.pop()
	c.guard.exit()
	return item, ok
}

// PopInto moves up to len(dst) queued elements into dst in FIFO order
// without spinning and returns how many were moved. The read cursor is
// published once for the whole batch.
func (c *Consumer[T]) PopInto(dst []T) int {
	c.guard.enter("PopInto")
	n := c.core.popInto(dst)
	c.guard.exit()
	return n
}

// PopBatch removes up to limit queued elements without spinning and returns
// them in FIFO order. Returns nil when the queue is empty or limit <= 0.
func (c *Consumer[T]) PopBatch(limit int) []T {
	if limit <= 0 {
		return nil
	}
	c.guard.enter("PopBatch")
	defer c.guard.exit()

	n := min(c.core.used(), limit)
	if n == 0 {
		return nil
	}
	dst := make([]T, n)
	return dst[:c.core.popInto(dst)]
}

// Drain removes every queued element, passing each to release in FIFO
// order, and returns the count. A nil release just discards the elements.
//
// Use Drain before abandoning a queue whose elements own resources that
// the garbage collector will not reclaim, such as open files:
//
//	c.Drain(func(f *os.File) { f.Close() })
func (c *Consumer[T]) Drain(release func(T)) int {
	c.guard.enter("Drain")
	defer c.guard.exit()
	return c.core.drain(release)
}

// Len returns the number of queued elements.
// The producer may add more concurrently, so this is a lower bound.
func (c *Consumer[T]) Len() int {
	c.guard.enter("Len")
	n := c.core.used()
	c.guard.exit()
	return n
}

// Empty reports whether no element is queued.
func (c *Consumer[T]) Empty() bool {
	return c.Len() == 0
}

// Cap returns the usable capacity, N-1.
func (c *Consumer[T]) Cap() int {
	return c.core.Cap()
}
