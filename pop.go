// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Consumer-side algorithms, the mirror image of push.go. Only the goroutine
// holding the Consumer may call these: they write R, r.peer and the slot at R.
//
// r.peer is only ever assigned from LoadAcquire(W), so a slot it admits was
// fully written by the producer before the consumer reads it. A popped slot
// is reset to the zero value before R is published, releasing anything it
// referenced to the garbage collector.

// tryPop removes the oldest item if one is visible after at most one
// refresh of W. A failed tryPop changes nothing but the cached W.
func (q *Core[T]) tryPop() (T, bool) {
	r := q.r.pos.LoadRelaxed()
	if r == q.r.peer {
		q.r.peer = q.w.pos.LoadAcquire()
		if r == q.r.peer {
			var zero T
			return zero, false
		}
	}

	item := q.slots[r]
	var zero T
	q.slots[r] = zero
	q.r.pos.StoreRelease((r + 1) & q.mask)
	return item, true
}

// pop is tryPop with the bounded spin on an empty ring.
func (q *Core[T]) pop() (T, bool) {
	r := q.r.pos.LoadRelaxed()
	if r == q.r.peer {
		q.r.peer = q.w.pos.LoadAcquire()
		if r == q.r.peer && !q.awaitData(r) {
			var zero T
			return zero, false
		}
	}

	item := q.slots[r]
	var zero T
	q.slots[r] = zero
	q.r.pos.StoreRelease((r + 1) & q.mask)
	return item, true
}

// awaitData is the cold path of pop: it spins until W moves off r or the
// spin budget runs out.
func (q *Core[T]) awaitData(r uint64) bool {
	return spinUntil(q.spinLimit, func() bool {
		q.r.peer = q.w.pos.LoadAcquire()
		return r != q.r.peer
	})
}

// popInto moves up to len(dst) visible items into dst and publishes R once.
func (q *Core[T]) popInto(dst []T) int {
	if len(dst) == 0 {
		return 0
	}

	r := q.r.pos.LoadRelaxed()
	avail := (q.r.peer - r) & q.mask
	if avail < uint64(len(dst)) {
		q.r.peer = q.w.pos.LoadAcquire()
		avail = (q.r.peer - r) & q.mask
	}
	n := min(uint64(len(dst)), avail)
	if n == 0 {
		return 0
	}

	// At most two segments: [R, N) then [0, rest).
	first := uint64(copy(dst[:n], q.slots[r:]))
	copy(dst[first:n], q.slots)
	clear(q.slots[r : r+first])
	clear(q.slots[:n-first])
	q.r.pos.StoreRelease((r + n) & q.mask)
	return int(n)
}

// drain pops every visible item, handing each to release in FIFO order.
func (q *Core[T]) drain(release func(T)) int {
	count := 0
	for {
		item, ok := q.tryPop()
		if !ok {
			return count
		}
		if release != nil {
			release(item)
		}
		count++
	}
}

// used returns the number of queued items as seen by the consumer.
func (q *Core[T]) used() int {
	q.r.peer = q.w.pos.LoadAcquire()
	return int((q.r.peer - q.r.pos.LoadRelaxed()) & q.mask)
}
