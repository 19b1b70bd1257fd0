// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"code.hybscloud.com/atomix"
	"golang.org/x/sys/cpu"
)

// cursor is one side's ring position.
//
// pos is published to the peer and is the only field the peer ever reads.
// peer is the owner's private snapshot of the other side's pos; it is
// refreshed only by an acquire load, so every position it admits is already
// synchronized. Each field owns a whole cache line: the owner rewrites peer
// on refresh, and that must not invalidate the line the peer polls.
type cursor struct {
	_    cpu.CacheLinePad
	pos  atomix.Uint64
	_    cpu.CacheLinePad
	peer uint64
}

// reset puts the cursor back at slot zero.
// Only valid while no handle exists.
func (c *cursor) reset() {
	c.pos.StoreRelaxed(0)
	c.peer = 0
}
