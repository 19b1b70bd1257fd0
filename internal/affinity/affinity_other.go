// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package affinity

import "runtime"

// Supported reports whether Pin can restrict a thread to a CPU.
const Supported = false

// Pin locks the calling goroutine to its OS thread. Thread affinity is not
// available on this platform, so cpu is ignored.
func Pin(cpu int) (release func(), err error) {
	if cpu < 0 {
		return func() {}, nil
	}
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}

// Current returns every CPU; the mask cannot be queried on this platform.
func Current() ([]int, error) {
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus, nil
}
