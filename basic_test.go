// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/spsc"
)

// =============================================================================
// Test Helpers
// =============================================================================

// split builds a core with the given number of slots and splits it.
func split[T any](t *testing.T, capacity int) (*spsc.Producer[T], *spsc.Consumer[T]) {
	t.Helper()
	core, err := spsc.NewCore[T](capacity)
	if err != nil {
		t.Fatalf("NewCore(%d): %v", capacity, err)
	}
	return core.Split()
}

// splitNoSpin is split with spinning disabled, for tests that hit full or
// empty on purpose.
func splitNoSpin[T any](t *testing.T, capacity int) (*spsc.Producer[T], *spsc.Consumer[T]) {
	t.Helper()
	core, err := spsc.Build[T](spsc.New(capacity).NoSpin())
	if err != nil {
		t.Fatalf("Build(%d): %v", capacity, err)
	}
	return core.Split()
}

// mustPanicWith runs f and fails unless it panics with an error matching target.
func mustPanicWith(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v (%T) is not an error", r, r)
		}
		if !errors.Is(err, target) {
			t.Fatalf("panic %v does not wrap %v", err, target)
		}
	}()
	f()
}

// =============================================================================
// Construction
// =============================================================================

// TestNewCoreCapacityValidation checks that only powers of 2 >= 2 are accepted.
func TestNewCoreCapacityValidation(t *testing.T) {
	for _, capacity := range []int{-8, -1, 0, 1, 3, 5, 6, 7, 12, 100, 1000} {
		core, err := spsc.NewCore[int](capacity)
		if err == nil {
			t.Fatalf("NewCore(%d): got nil error, want ConfigError", capacity)
		}
		if core != nil {
			t.Fatalf("NewCore(%d): got non-nil core on error", capacity)
		}
		if !errors.Is(err, spsc.ErrConfig) {
			t.Fatalf("NewCore(%d): %v does not wrap ErrConfig", capacity, err)
		}
		var cfgErr *spsc.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("NewCore(%d): %T is not *ConfigError", capacity, err)
		}
		if cfgErr.Param != "capacity" {
			t.Fatalf("NewCore(%d): Param = %q, want capacity", capacity, cfgErr.Param)
		}
	}

	for _, capacity := range []int{2, 4, 8, 16, 1024, 1 << 16} {
		core, err := spsc.NewCore[int](capacity)
		if err != nil {
			t.Fatalf("NewCore(%d): %v", capacity, err)
		}
		if core.Cap() != capacity-1 {
			t.Fatalf("NewCore(%d).Cap() = %d, want %d", capacity, core.Cap(), capacity-1)
		}
	}
}

// TestNewCoreEight matches the documented example: 8 slots hold 7 items.
func TestNewCoreEight(t *testing.T) {
	p, c := split[int](t, 8)
	if p.Cap() != 7 || c.Cap() != 7 {
		t.Fatalf("Cap: producer %d, consumer %d, want 7", p.Cap(), c.Cap())
	}
	for i := range 7 {
		if err := p.TryPush(i); err != nil {
			t.Fatalf("TryPush(%d): %v", i, err)
		}
	}
	if err := p.TryPush(7); !errors.Is(err, spsc.ErrFull) {
		t.Fatalf("TryPush on full: got %v, want ErrFull", err)
	}
}

// TestMustNewCorePanics checks that MustNewCore surfaces the ConfigError.
func TestMustNewCorePanics(t *testing.T) {
	mustPanicWith(t, spsc.ErrConfig, func() { spsc.MustNewCore[int](3) })

	core := spsc.MustNewCore[int](4)
	if core.Cap() != 3 {
		t.Fatalf("Cap: got %d, want 3", core.Cap())
	}
}

// TestSplitTwicePanics checks that a second pair of handles cannot be made.
func TestSplitTwicePanics(t *testing.T) {
	core := spsc.MustNewCore[int](4)
	p, c := core.Split()
	if p == nil || c == nil {
		t.Fatal("Split returned nil handle")
	}

	mustPanicWith(t, spsc.ErrUsageViolation, func() { core.Split() })

	// The first pair is unaffected.
	if err := p.Push(1); err != nil {
		t.Fatalf("Push after failed Split: %v", err)
	}
	if v, ok := c.Pop(); !ok || v != 1 {
		t.Fatalf("Pop after failed Split: got (%d, %v), want (1, true)", v, ok)
	}
}

// =============================================================================
// Basic Operations
// =============================================================================

// TestCapacityFourScenario walks the capacity-4 push/pop sequence.
func TestCapacityFourScenario(t *testing.T) {
	p, c := split[int](t, 4)

	for _, v := range []int{1, 2, 3} {
		if err := p.Push(v); err != nil {
			t.Fatalf("Push(%d): %v", v, err)
		}
	}

	if err := p.Push(4); !errors.Is(err, spsc.ErrFull) {
		t.Fatalf("Push(4) on full: got %v, want ErrFull", err)
	}

	if v, ok := c.Pop(); !ok || v != 1 {
		t.Fatalf("Pop: got (%d, %v), want (1, true)", v, ok)
	}

	if err := p.Push(4); err != nil {
		t.Fatalf("Push(4) after Pop: %v", err)
	}

	for _, want := range []int{2, 3, 4} {
		v, ok := c.Pop()
		if !ok || v != want {
			t.Fatalf("Pop: got (%d, %v), want (%d, true)", v, ok, want)
		}
	}

	if v, ok := c.Pop(); ok {
		t.Fatalf("Pop on empty: got (%d, true), want (0, false)", v)
	}
}

// TestFullRejectsWithoutStoring checks that a rejected item is never observed.
func TestFullRejectsWithoutStoring(t *testing.T) {
	p, c := splitNoSpin[string](t, 4)

	for _, s := range []string{"a", "b", "c"} {
		if err := p.TryPush(s); err != nil {
			t.Fatalf("TryPush(%q): %v", s, err)
		}
	}
	if !p.Full() {
		t.Fatal("Full: got false after 3 pushes into 4 slots")
	}

	for range 10 {
		if err := p.Push("rejected"); !errors.Is(err, spsc.ErrFull) {
			t.Fatalf("Push on full: got %v, want ErrFull", err)
		}
	}

	for _, want := range []string{"a", "b", "c"} {
		if v, ok := c.TryPop(); !ok || v != want {
			t.Fatalf("TryPop: got (%q, %v), want (%q, true)", v, ok, want)
		}
	}
	if v, ok := c.TryPop(); ok {
		t.Fatalf("TryPop on empty: got %q, rejected item leaked", v)
	}
}

// TestEmptyPopIsIdempotent checks that repeated empty pops leave no trace.
func TestEmptyPopIsIdempotent(t *testing.T) {
	p, c := split[int](t, 8)

	for range 100 {
		if v, ok := c.Pop(); ok || v != 0 {
			t.Fatalf("Pop on empty: got (%d, %v), want (0, false)", v, ok)
		}
		if v, ok := c.TryPop(); ok || v != 0 {
			t.Fatalf("TryPop on empty: got (%d, %v), want (0, false)", v, ok)
		}
	}
	if c.Len() != 0 || !c.Empty() {
		t.Fatalf("Len after empty pops: got %d, want 0", c.Len())
	}
	if p.Free() != 7 {
		t.Fatalf("Free after empty pops: got %d, want 7", p.Free())
	}

	if err := p.Push(42); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if v, ok := c.Pop(); !ok || v != 42 {
		t.Fatalf("Pop: got (%d, %v), want (42, true)", v, ok)
	}
}

// TestFIFOInterleaved checks single-goroutine FIFO order under an arbitrary
// interleaving of pushes and pops.
func TestFIFOInterleaved(t *testing.T) {
	p, c := splitNoSpin[int](t, 16)

	next, expect := 0, 0
	// Deterministic pseudo-random schedule (xorshift).
	x := uint32(2463534242)
	for range 100_000 {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		if x%3 != 0 {
			if p.TryPush(next) == nil {
				next++
			}
			continue
		}
		if v, ok := c.TryPop(); ok {
			if v != expect {
				t.Fatalf("TryPop: got %d, want %d", v, expect)
			}
			expect++
		}
	}

	for {
		v, ok := c.TryPop()
		if !ok {
			break
		}
		if v != expect {
			t.Fatalf("drain: got %d, want %d", v, expect)
		}
		expect++
	}
	if expect != next {
		t.Fatalf("popped %d items, pushed %d", expect, next)
	}
}

// TestWraparound runs many fill/drain rounds over a small ring.
func TestWraparound(t *testing.T) {
	p, c := splitNoSpin[int](t, 4)

	for round := range 100 {
		for i := range 3 {
			if err := p.TryPush(round*100 + i); err != nil {
				t.Fatalf("round %d: TryPush(%d): %v", round, i, err)
			}
		}
		for i := range 3 {
			v, ok := c.TryPop()
			if !ok {
				t.Fatalf("round %d: TryPop: empty", round)
			}
			if v != round*100+i {
				t.Fatalf("round %d: got %d, want %d", round, v, round*100+i)
			}
		}
	}
}

// TestLenFreeAccounting checks occupancy as seen from both sides.
func TestLenFreeAccounting(t *testing.T) {
	p, c := splitNoSpin[int](t, 8)

	for i := range 7 {
		if c.Len() != i {
			t.Fatalf("Len: got %d, want %d", c.Len(), i)
		}
		if p.Free() != 7-i {
			t.Fatalf("Free: got %d, want %d", p.Free(), 7-i)
		}
		if err := p.TryPush(i); err != nil {
			t.Fatalf("TryPush(%d): %v", i, err)
		}
	}
	if !p.Full() || c.Empty() {
		t.Fatalf("Full/Empty: got %v/%v, want true/false", p.Full(), c.Empty())
	}
}

// TestPopReleasesReferences checks that popped slots do not pin memory.
func TestPopReleasesReferences(t *testing.T) {
	p, c := splitNoSpin[*[]byte](t, 4)

	for round := range 8 {
		buf := make([]byte, 1<<10)
		buf[0] = byte(round)
		if err := p.TryPush(&buf); err != nil {
			t.Fatalf("TryPush: %v", err)
		}
		got, ok := c.TryPop()
		if !ok || (*got)[0] != byte(round) {
			t.Fatalf("round %d: unexpected pop", round)
		}
	}
}

// =============================================================================
// Builder
// =============================================================================

// TestBuilderRoundUp checks capacity rounding.
func TestBuilderRoundUp(t *testing.T) {
	tests := []struct {
		input int
		slots int
	}{
		{2, 2},
		{3, 4},
		{5, 8},
		{7, 8},
		{9, 16},
		{100, 128},
		{1000, 1024},
		{1024, 1024},
	}

	for _, tc := range tests {
		core, err := spsc.Build[int](spsc.New(tc.input).RoundUp())
		if err != nil {
			t.Fatalf("Build(%d).RoundUp(): %v", tc.input, err)
		}
		if core.Cap() != tc.slots-1 {
			t.Fatalf("Build(%d).RoundUp().Cap() = %d, want %d", tc.input, core.Cap(), tc.slots-1)
		}
	}

	if _, err := spsc.Build[int](spsc.New(1).RoundUp()); !errors.Is(err, spsc.ErrConfig) {
		t.Fatalf("Build(1).RoundUp(): got %v, want ErrConfig", err)
	}
}

// TestBuilderSpinLimit checks spin limit validation.
func TestBuilderSpinLimit(t *testing.T) {
	for _, n := range []int{0, 1, 7, 256, 1 << 12} {
		if _, err := spsc.Build[int](spsc.New(8).SpinLimit(n)); err != nil {
			t.Fatalf("SpinLimit(%d): %v", n, err)
		}
	}

	_, err := spsc.Build[int](spsc.New(8).SpinLimit(-1))
	var cfgErr *spsc.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Param != "spin limit" {
		t.Fatalf("SpinLimit(-1): got %v, want spin limit ConfigError", err)
	}
}

// =============================================================================
// Errors
// =============================================================================

// TestErrFullIsWouldBlock checks that ErrFull is a would-block signal.
func TestErrFullIsWouldBlock(t *testing.T) {
	if !errors.Is(spsc.ErrFull, spsc.ErrWouldBlock) {
		t.Fatal("ErrFull does not wrap ErrWouldBlock")
	}
	if !spsc.IsWouldBlock(spsc.ErrFull) {
		t.Fatal("IsWouldBlock(ErrFull) = false")
	}
	if !spsc.IsWouldBlock(spsc.ErrWouldBlock) {
		t.Fatal("IsWouldBlock(ErrWouldBlock) = false")
	}
	if !spsc.IsNonFailure(nil) {
		t.Fatal("IsNonFailure(nil) = false")
	}
	if spsc.IsWouldBlock(spsc.ErrConfig) {
		t.Fatal("IsWouldBlock(ErrConfig) = true")
	}
}

// TestErrorMessages checks the typed error strings.
func TestErrorMessages(t *testing.T) {
	cfg := &spsc.ConfigError{Param: "capacity", Value: 3, Reason: "must be a power of 2"}
	if got, want := cfg.Error(), "spsc: invalid capacity 3: must be a power of 2"; got != want {
		t.Fatalf("ConfigError: got %q, want %q", got, want)
	}
	use := &spsc.UsageError{Op: "Split", Reason: "called more than once on the same Core"}
	if got, want := use.Error(), "spsc: Split: called more than once on the same Core"; got != want {
		t.Fatalf("UsageError: got %q, want %q", got, want)
	}
}
