// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build spscguard

package spsc

import "code.hybscloud.com/atomix"

// GuardEnabled is true when handles check for concurrent use.
const GuardEnabled = true

// useGuard detects two goroutines inside the same handle at once.
//
// Built only with -tags spscguard: the check costs an atomic
// read-modify-write per operation, which the queue otherwise never needs.
type useGuard struct {
	active atomix.Uint64
}

func (g *useGuard) enter(op string) {
	if !g.active.CompareAndSwapAcqRel(0, 1) {
		panic(&UsageError{Op: op, Reason: "handle used by more than one goroutine at once"})
	}
}

func (g *useGuard) exit() {
	g.active.StoreRelease(0)
}
