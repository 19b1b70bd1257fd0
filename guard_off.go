// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !spscguard

package spsc

// GuardEnabled is false when handles do not check for concurrent use.
const GuardEnabled = false

type useGuard struct{}

func (*useGuard) enter(string) {}
func (*useGuard) exit()        {}
