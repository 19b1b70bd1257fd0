// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"fmt"
	"slices"
	"strings"

	"code.hybscloud.com/spsc"
	"code.hybscloud.com/spsc/internal/lockq"
)

// Target is a bounded queue the driver can measure.
type Target struct {
	Name        string
	Description string

	// New creates a queue with capacity slots and returns its two ends.
	New func(capacity, spinLimit int) (spsc.Pusher[Sample], spsc.Popper[Sample], error)
}

var targets = []Target{
	{
		Name:        "spsc",
		Description: "lock-free ring, acquire/release cursors",
		New: func(capacity, spinLimit int) (spsc.Pusher[Sample], spsc.Popper[Sample], error) {
			core, err := spsc.Build[Sample](spsc.New(capacity).SpinLimit(spinLimit))
			if err != nil {
				return nil, nil, err
			}
			p, c := core.Split()
			return p, c, nil
		},
	},
	{
		Name:        "lockq",
		Description: "same ring behind a sync.Mutex",
		New: func(capacity, _ int) (spsc.Pusher[Sample], spsc.Popper[Sample], error) {
			q, err := lockq.New[Sample](capacity)
			if err != nil {
				return nil, nil, err
			}
			return q, q, nil
		},
	},
	{
		Name:        "chan",
		Description: "buffered channel, non-blocking select",
		New: func(capacity, _ int) (spsc.Pusher[Sample], spsc.Popper[Sample], error) {
			q, err := newChanQueue[Sample](capacity)
			if err != nil {
				return nil, nil, err
			}
			return q, q, nil
		},
	},
}

// Targets returns every known target in a stable order.
func Targets() []Target {
	return slices.Clone(targets)
}

// Lookup resolves a comma-separated list of target names.
func Lookup(names string) ([]Target, error) {
	var out []Target
	for name := range strings.SplitSeq(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		i := slices.IndexFunc(targets, func(t Target) bool { return t.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("handoff: unknown target %q", name)
		}
		out = append(out, targets[i])
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("handoff: no targets in %q", names)
	}
	return out, nil
}

// chanQueue adapts a buffered channel to the queue contract.
// The buffer holds capacity-1 items to match the ring targets.
type chanQueue[T any] struct {
	ch chan T
}

func newChanQueue[T any](capacity int) (*chanQueue[T], error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, &spsc.ConfigError{Param: "capacity", Value: capacity, Reason: "must be a power of 2 >= 2"}
	}
	return &chanQueue[T]{ch: make(chan T, capacity-1)}, nil
}

func (q *chanQueue[T]) TryPush(item T) error {
	select {
	case q.ch <- item:
		return nil
	default:
		return spsc.ErrFull
	}
}

func (q *chanQueue[T]) Push(item T) error { return q.TryPush(item) }

func (q *chanQueue[T]) PushBatch(items []T) int {
	for i, item := range items {
		if q.TryPush(item) != nil {
			return i
		}
	}
	return len(items)
}

func (q *chanQueue[T]) TryPop() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

func (q *chanQueue[T]) Pop() (T, bool) { return q.TryPop() }

func (q *chanQueue[T]) PopInto(dst []T) int {
	for i := range dst {
		v, ok := q.TryPop()
		if !ok {
			return i
		}
		dst[i] = v
	}
	return len(dst)
}
