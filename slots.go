// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// cacheLineSize is the platform cache line size used for padding.
const cacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// makeSlots allocates n cells whose first cell starts on a cache line
// boundary when the element size allows it.
//
// Go has no aligned allocation for arbitrary T, so the buffer is
// over-allocated by at most one cache line worth of elements and sliced
// at the first aligned cell. Element sizes that never land on a boundary
// fall back to the allocator's natural alignment.
//
// Cells are zero-valued; a cell is only meaningful while its position lies
// in the cyclic range [R, W).
func makeSlots[T any](n int) []T {
	size := unsafe.Sizeof(*new(T))
	if size == 0 || size >= cacheLineSize {
		return make([]T, n)
	}

	extra := int(cacheLineSize / size)
	buf := make([]T, n+extra)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	for i := 0; i <= extra; i++ {
		if (base+uintptr(i)*size)%cacheLineSize == 0 {
			return buf[i : i+n : i+n]
		}
	}
	return buf[:n:n]
}
