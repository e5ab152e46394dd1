package lockpool

import (
	"math/rand/v2"
	"sync/atomic"
)

// Placement decides which pool ordinal guards which cell. Distribute assigns
// ordinals to every cell of a fresh grid; Pick assigns an ordinal to one cell
// created by growth. Implementations must only return ordinals in 0..size-1.
type Placement interface {
	Distribute(total, size int) []int
	Pick(size int) int
}

// Random spreads cells across the pool so each ordinal guards a near-equal
// share: each ordinal appears ⌊total/size⌋ or ⌊total/size⌋+1 times, with the
// assignment order shuffled so no region of the grid systematically maps to
// the same lock. Growth picks uniformly with replacement.
type Random struct{}

// Distribute returns a shuffled balanced assignment of total cells over size
// ordinals.
func (Random) Distribute(total, size int) []int {
	out := make([]int, total)
	for i := range out {
		out[i] = i % size
	}
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Pick returns a uniformly random ordinal.
func (Random) Pick(size int) int {
	return rand.IntN(size)
}

// RoundRobin assigns ordinals cyclically. Deterministic, so tests can pin
// cells to known locks.
type RoundRobin struct {
	next atomic.Int64
}

// NewRoundRobin returns a round-robin placement starting at ordinal 0.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Distribute assigns cell i to ordinal i mod size and positions the Pick
// cursor after the last assigned cell.
func (r *RoundRobin) Distribute(total, size int) []int {
	out := make([]int, total)
	for i := range out {
		out[i] = i % size
	}
	r.next.Store(int64(total))
	return out
}

// Pick returns the next ordinal in cyclic order.
func (r *RoundRobin) Pick(size int) int {
	return int((r.next.Add(1) - 1) % int64(size))
}
