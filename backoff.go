// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import "code.hybscloud.com/spin"

// DefaultSpinLimit is the largest spin round Push and Pop run before
// reporting full or empty. Rounds double from 1, so the default allows
// 9 re-checks and 511 pause hints in total.
const DefaultSpinLimit = 256

// pauseHint issues n CPU pause instructions. It never blocks or yields the
// scheduler.
var pauseHint = func(n int) { spin.Pause(n) }

// spinUntil polls ready, separating polls by a geometrically growing number
// of CPU pause hints: 1, 2, 4, ... while the round size stays within limit.
// It reports whether ready returned true before the budget ran out.
//
// This is a plain busy loop. It never parks or yields the goroutine, and a
// limit of zero returns false without polling.
func spinUntil(limit int, ready func() bool) bool {
	for round := 1; round <= limit; round <<= 1 {
		pauseHint(round)
		if ready() {
			return true
		}
	}
	return false
}
