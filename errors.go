// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"errors"
	"fmt"
	"strconv"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
// [ErrFull] wraps it, so callers that only care about backpressure can
// test with [IsWouldBlock].
var ErrWouldBlock = iox.ErrWouldBlock

// ErrFull is returned by Push and TryPush when no slot is free.
//
// ErrFull is a control flow signal, not a failure: nothing was stored and
// the caller still owns the item. Apply a retry, backoff or shed policy:
//
//	backoff := iox.Backoff{}
//	for p.Push(item) != nil {
//	    backoff.Wait()
//	}
//	backoff.Reset()
var ErrFull = fmt.Errorf("spsc: queue full: %w", ErrWouldBlock)

// ErrConfig is wrapped by every [ConfigError].
var ErrConfig = errors.New("spsc: invalid configuration")

// ErrUsageViolation is wrapped by every [UsageError].
var ErrUsageViolation = errors.New("spsc: usage violation")

// ConfigError reports an invalid construction parameter.
// It is returned once, at construction, and is not retryable.
type ConfigError struct {
	Param  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return "spsc: invalid " + e.Param + " " + strconv.Itoa(e.Value) + ": " + e.Reason
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// UsageError reports a broken single-producer single-consumer contract.
// It is raised as a panic value, never returned.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return "spsc: " + e.Op + ": " + e.Reason
}

func (e *UsageError) Unwrap() error { return ErrUsageViolation }

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
