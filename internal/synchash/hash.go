// Package synchash holds the session-wide determinism state shared by all
// peers of a lockstep simulation: the rolling sync checksum and the sync
// random generator.
package synchash

import (
	"fmt"
	"math/bits"
)

// Hash is the rolling sync checksum. Its value depends on both the folded
// state and the order of the folds, so peers only agree when they walk units
// in the same order. It is created once per session and never reset.
//
// Not safe for concurrent use; only the dispatch stage folds into it.
type Hash struct {
	v uint32
}

// New returns an accumulator starting at seed (0 for a fresh session).
func New(seed uint32) *Hash {
	return &Hash{v: seed}
}

// Fold mixes one unit's post-execution state into the checksum.
// action is the current order kind, or 0 when the unit has no order.
func (h *Hash) Fold(action, state int, refs uint32) {
	h.v = bits.RotateLeft32(h.v, 5)
	h.v ^= uint32(action) << 18
	h.v ^= uint32(state) << 12
	h.v ^= refs << 3
}

// Sum32 returns the current checksum.
func (h *Hash) Sum32() uint32 {
	return h.v
}

func (h *Hash) String() string {
	return fmt.Sprintf("%08X", h.v)
}
