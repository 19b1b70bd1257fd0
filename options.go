// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Options configures queue creation.
type Options struct {
	// Slot count N; usable capacity is N-1
	capacity int

	// Largest spin round for Push/Pop (0 disables spinning)
	spinLimit int

	// Round a non-power-of-2 capacity up instead of rejecting it
	roundUp bool
}

// Builder creates queue cores with fluent configuration.
//
// Example:
//
//	// Defaults: strict power-of-2 capacity, DefaultSpinLimit
//	core, err := spsc.Build[Event](spsc.New(1024))
//
//	// Never spin: Push/Pop behave like TryPush/TryPop
//	core, err := spsc.Build[Event](spsc.New(1024).NoSpin())
//
//	// Accept any capacity >= 2, rounded up to the next power of 2
//	core, err := spsc.Build[Event](spsc.New(1000).RoundUp())
type Builder struct {
	opts Options
}

// New creates a builder for a core with the given number of slots.
//
// Validation is deferred to [Build], which reports a [ConfigError].
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity, spinLimit: DefaultSpinLimit}}
}

// SpinLimit sets the largest spin round Push and Pop run when the queue is
// full or empty. Rounds double from 1 up to n; n need not be a power of 2.
func (b *Builder) SpinLimit(n int) *Builder {
	b.opts.spinLimit = n
	return b
}

// NoSpin disables the bounded spin: Push and Pop report full or empty
// after a single re-check of the peer cursor.
func (b *Builder) NoSpin() *Builder {
	b.opts.spinLimit = 0
	return b
}

// RoundUp accepts any capacity >= 2 and rounds it up to the next power of 2.
//
// For example, capacity=4 stays 4 and capacity=1000 becomes 1024.
func (b *Builder) RoundUp() *Builder {
	b.opts.roundUp = true
	return b
}

// Build creates a Core[T] from the builder's configuration.
//
// Returns a [ConfigError] if the capacity is below 2, is not a power of 2
// (unless RoundUp was requested), or the spin limit is negative.
func Build[T any](b *Builder) (*Core[T], error) {
	n := b.opts.capacity
	if n < 2 {
		return nil, &ConfigError{Param: "capacity", Value: n, Reason: "must be >= 2"}
	}
	if b.opts.roundUp {
		n = roundToPow2(n)
	}
	if n&(n-1) != 0 {
		return nil, &ConfigError{Param: "capacity", Value: n, Reason: "must be a power of 2"}
	}
	if b.opts.spinLimit < 0 {
		return nil, &ConfigError{Param: "spin limit", Value: b.opts.spinLimit, Reason: "must be >= 0"}
	}
	return newCore[T](n, b.opts.spinLimit), nil
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
