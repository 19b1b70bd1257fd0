// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Producer is the write side of a [Core], obtained from [Core.Split].
//
// It is the sole writer of W and of the slot at W, and only ever reads R.
// Exactly one goroutine may use a Producer; do not share it.
type Producer[T any] struct {
	core  *Core[T]
	guard useGuard
}

// TryPush adds an element without spinning.
// Returns [ErrFull] if the queue is full.
func (p *Producer[T]) TryPush(item T) error {
	p.guard.enter("TryPush")
	err := p.core.tryPush(item)
	p.guard.exit()
	return err
}

// Push adds an element, spinning briefly while the queue is full.
//
// When no slot is free, Push re-reads the consumer's cursor after 1, 2,
// 4, ... CPU pause hints up to the core's spin limit, then returns
// [ErrFull]. Push never parks or yields the goroutine. On failure nothing was
// stored and the caller still owns item.
func (p *Producer[T]) Push(item T) error {
	p.guard.enter("Push")
	err := p.core.push(item)
	p.guard.exit()
	return err
}

// PushBatch adds the longest prefix of items that fits without spinning
// and returns its length. The write cursor is published once for the
// whole prefix. items[n:] were never visible to the consumer.
func (p *Producer[T]) PushBatch(items []T) int {
	p.guard.enter("PushBatch")
	n := p.core.pushBatch(items)
	p.guard.exit()
	return n
}

// Free returns how many elements can be pushed before the queue is full.
// The consumer may free more slots concurrently, so this is a lower bound.
func (p *Producer[T]) Free() int {
	p.guard.enter("Free")
	n := p.core.free()
	p.guard.exit()
	return n
}

// Full reports whether the queue has no free slot.
func (p *Producer[T]) Full() bool {
	return p.Free() == 0
}

// Cap returns the usable capacity, N-1.
func (p *Producer[T]) Cap() int {
	return p.core.Cap()
}
