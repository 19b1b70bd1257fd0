// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package affinity pins benchmark goroutines to CPUs.
//
// A producer and consumer pinned to different cores measure the cost of
// moving cache lines between them instead of the scheduler's placement.
// On Linux Pin uses sched_setaffinity(2); elsewhere it only locks the
// goroutine to its thread.
package affinity
