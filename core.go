// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"code.hybscloud.com/atomix"
	"golang.org/x/sys/cpu"
)

// Core is the shared state of a bounded single-producer single-consumer
// queue: a ring of N slots, the write cursor W and the read cursor R.
//
// Based on Lamport's ring buffer with cached peer cursors. One slot is kept
// free to tell full from empty, so N slots hold at most N-1 items:
//
//	empty  ⇔  W == R
//	full   ⇔  (W+1) mod N == R
//
// A Core does nothing by itself. [Core.Split] hands out the only
// [Producer] and the only [Consumer] that will ever exist for it.
//
// Memory: N slots plus five cache lines of cursor state.
type Core[T any] struct {
	_ noCopy

	w cursor // W; pos written by the producer, peer caches R
	r cursor // R; pos written by the consumer, peer caches W
	_ cpu.CacheLinePad

	slots     []T
	mask      uint64
	spinLimit int
	split     atomix.Uint64
}

// NewCore creates a core with capacity slots and the default spin limit.
//
// Capacity must be a power of 2 and at least 2; the queue then holds up to
// capacity-1 items. Any other capacity yields a [ConfigError].
func NewCore[T any](capacity int) (*Core[T], error) {
	return Build[T](New(capacity))
}

// MustNewCore is like [NewCore] but panics with the [ConfigError].
func MustNewCore[T any](capacity int) *Core[T] {
	c, err := NewCore[T](capacity)
	if err != nil {
		panic(err)
	}
	return c
}

func newCore[T any](n int, spinLimit int) *Core[T] {
	return &Core[T]{
		slots:     makeSlots[T](n),
		mask:      uint64(n - 1),
		spinLimit: spinLimit,
	}
}

// Split resets both cursors to zero and returns the producer and consumer
// handles.
//
// Split may be called once per Core. A second call panics with a
// [UsageError]: two producers or two consumers on one ring would break the
// disjoint write authority the queue relies on.
//
// After Split the Core should not be used directly; hand the Producer to
// one goroutine and the Consumer to one other goroutine.
func (c *Core[T]) Split() (*Producer[T], *Consumer[T]) {
	if !c.split.CompareAndSwapAcqRel(0, 1) {
		panic(&UsageError{Op: "Split", Reason: "called more than once on the same Core"})
	}
	c.w.reset()
	c.r.reset()
	return &Producer[T]{core: c}, &Consumer[T]{core: c}
}

// Cap returns the usable capacity, N-1.
func (c *Core[T]) Cap() int {
	return int(c.mask)
}

// noCopy flags accidental copies of a Core via go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
