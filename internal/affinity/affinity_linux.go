// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Supported reports whether Pin can restrict a thread to a CPU.
const Supported = true

// Pin locks the calling goroutine to its OS thread and restricts that
// thread to cpu. A negative cpu is a no-op.
//
// The goroutine stays locked until the returned release func is called;
// release also restores the thread's previous CPU mask.
func Pin(cpu int) (release func(), err error) {
	if cpu < 0 {
		return func() {}, nil
	}
	if cpu >= runtime.NumCPU() {
		return nil, fmt.Errorf("affinity: cpu %d out of range [0, %d)", cpu, runtime.NumCPU())
	}

	runtime.LockOSThread()

	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("affinity: get mask: %w", err)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("affinity: pin to cpu %d: %w", cpu, err)
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &prev)
		runtime.UnlockOSThread()
	}, nil
}

// Current returns the CPUs the calling thread may run on.
func Current() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("affinity: get mask: %w", err)
	}
	var cpus []int
	for i := range runtime.NumCPU() {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
