// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Producer-side algorithms. Only the goroutine holding the Producer may
// call these: they write W, w.peer and the slot at W.
//
// Ordering contract:
//
//	producer: slot[W] = item  →  StoreRelease(W)
//	consumer: LoadAcquire(W)  →  read slot[R]  →  StoreRelease(R)
//	producer: LoadAcquire(R)  →  overwrite slot[W]
//
// w.peer is only ever assigned from LoadAcquire(R), so a slot it admits was
// fully read by the consumer before the producer touches it.

// tryPush stores item if a slot is free after at most one refresh of R.
func (q *Core[T]) tryPush(item T) error {
	w := q.w.pos.LoadRelaxed()
	next := (w + 1) & q.mask
	if next == q.w.peer {
		q.w.peer = q.r.pos.LoadAcquire()
		if next == q.w.peer {
			return ErrFull
		}
	}

	q.slots[w] = item
	q.w.pos.StoreRelease(next)
	return nil
}

// push is tryPush with the bounded spin on a full ring.
func (q *Core[T]) push(item T) error {
	w := q.w.pos.LoadRelaxed()
	next := (w + 1) & q.mask
	if next == q.w.peer {
		q.w.peer = q.r.pos.LoadAcquire()
		if next == q.w.peer && !q.awaitSpace(next) {
			return ErrFull
		}
	}

	q.slots[w] = item
	q.w.pos.StoreRelease(next)
	return nil
}

// awaitSpace is the cold path of push: it spins until R moves off next
// or the spin budget runs out.
func (q *Core[T]) awaitSpace(next uint64) bool {
	return spinUntil(q.spinLimit, func() bool {
		q.w.peer = q.r.pos.LoadAcquire()
		return next != q.w.peer
	})
}

// pushBatch stores the longest prefix of items that fits and publishes W
// once for all of it.
func (q *Core[T]) pushBatch(items []T) int {
	if len(items) == 0 {
		return 0
	}

	w := q.w.pos.LoadRelaxed()
	free := (q.w.peer - w - 1) & q.mask
	if free < uint64(len(items)) {
		q.w.peer = q.r.pos.LoadAcquire()
		free = (q.w.peer - w - 1) & q.mask
	}
	n := min(uint64(len(items)), free)
	if n == 0 {
		return 0
	}

	// At most two segments: [W, N) then [0, rest).
	first := copy(q.slots[w:], items[:n])
	copy(q.slots, items[first:n])
	q.w.pos.StoreRelease((w + n) & q.mask)
	return int(n)
}

// free returns the number of free slots as seen by the producer.
func (q *Core[T]) free() int {
	q.w.peer = q.r.pos.LoadAcquire()
	return int((q.w.peer - q.w.pos.LoadRelaxed() - 1) & q.mask)
}
