// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package spsc provides a bounded lock-free single-producer single-consumer
// queue for latency-sensitive handoff between two goroutines.
//
// A [Core] is a fixed ring of N slots (N a power of 2) with a write cursor
// and a read cursor, each on its own cache line. [Core.Split] yields the
// only [Producer] and the only [Consumer] for that ring. The producer is
// the sole writer of the write cursor, the consumer the sole writer of the
// read cursor, and each only reads the other's. No lock, no channel and no
// read-modify-write instruction is involved in a push or a pop.
//
// # Quick Start
//
//	core, err := spsc.NewCore[Event](1024) // holds up to 1023 events
//	if err != nil {
//	    return err // capacity not a power of 2, or < 2
//	}
//	p, c := core.Split()
//
//	go func() { // producer
//	    for ev := range discovered {
//	        for p.Push(ev) != nil {
//	            // full after the bounded spin: retry, back off or shed
//	        }
//	    }
//	}()
//
//	go func() { // consumer
//	    for {
//	        ev, ok := c.Pop()
//	        if !ok {
//	            continue // empty after the bounded spin
//	        }
//	        handle(ev)
//	    }
//	}()
//
// # Capacity
//
// One slot always stays free to tell a full ring from an empty one, so a
// Core with N slots holds at most N-1 elements:
//
//	spsc.NewCore[int](8)    // Cap() == 7
//	spsc.NewCore[int](3)    // ConfigError: not a power of 2
//	spsc.NewCore[int](0)    // ConfigError: below 2
//
// The builder can round instead of rejecting:
//
//	spsc.Build[int](spsc.New(1000).RoundUp()) // 1024 slots, Cap() == 1023
//
// # Backpressure
//
// Push and Pop wait a bounded time. When the ring is full (or empty) they
// re-read the peer cursor after 1, 2, 4, ... CPU pause hints, up to the
// spin limit ([DefaultSpinLimit] unless set with [Builder.SpinLimit]), and
// then give up. The goroutine is never parked. A failed Push returns
// [ErrFull] and stores nothing; a failed Pop returns (zero-value, false)
// and changes nothing.
//
// TryPush and TryPop never spin. A caller that needs a deadline composes
// it from the try variants in its own loop:
//
//	backoff := iox.Backoff{}
//	for p.TryPush(item) != nil {
//	    if time.Now().After(deadline) {
//	        return errDropped
//	    }
//	    backoff.Wait()
//	}
//
// # Batching
//
// [Producer.PushBatch] and [Consumer.PopInto] move as many elements as fit
// (or are available) without spinning, and publish the cursor once for the
// whole batch:
//
//	n := p.PushBatch(records) // records[n:] were not enqueued
//	got := c.PopBatch(64)     // 0..64 elements, FIFO order
//
// # Memory Ordering
//
// Every read of the peer's cursor that can admit a slot access is an
// acquire load, paired with the peer's release store:
//
//	producer: slot[W] = v   →  StoreRelease(W)
//	consumer: LoadAcquire(W) →  v = slot[R] →  StoreRelease(R)
//	producer: LoadAcquire(R) →  slot[W] may be overwritten
//
// Each side caches the last value it acquired and refreshes it only when
// the cache says full (or empty). A stale cache can only under-report
// space, never admit a slot the peer still owns.
//
// # Resource Release
//
// Popped slots are reset to the zero value, so the queue never pins memory
// the consumer has taken. Elements still queued when both handles are
// abandoned are reclaimed by the garbage collector with the Core. Elements
// that own other resources must be released explicitly:
//
//	c.Drain(func(f *os.File) { f.Close() })
//
// # Misuse
//
// Calling Split twice panics with a [UsageError]. Sharing one handle
// between goroutines is undefined behavior; building with
// -tags spscguard makes every handle operation check for it and panic.
//
// # Race Detection
//
// Go's race detector cannot observe happens-before edges created through
// atomix acquire/release orderings, so concurrent producer/consumer tests
// report false positives. Such tests skip when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions,
// and [golang.org/x/sys/cpu] for the platform cache line size.
package spsc
