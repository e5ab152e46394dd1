// Package lockpool provides the fixed mutex pool that guards grid cells and
// the ordered multi-acquire discipline that keeps multi-lock callers
// deadlock-free.
//
// Every lock in a Pool carries a stable ordinal assigned at creation. Callers
// that need more than one lock resolve their set of ordinals, and AcquireSet
// takes the deduplicated set strictly in ascending ordinal order. Because all
// multi-lock callers follow the same total order, no two of them can wait on
// each other in a cycle.
package lockpool

import (
	"fmt"
	"sort"
	"sync"
)

// Pool is a fixed set of mutexes. The pool is sized once at construction and
// never grows or shrinks; ordinals are indices into the pool and remain valid
// for its whole lifetime.
type Pool struct {
	locks []sync.Mutex
}

// New returns a pool of size mutexes with ordinals 0..size-1.
func New(size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("lockpool: size must be positive, got %d", size)
	}
	return &Pool{locks: make([]sync.Mutex, size)}, nil
}

// Size reports the number of locks in the pool.
func (p *Pool) Size() int {
	return len(p.locks)
}

// Lock acquires the single lock with the given ordinal, blocking until it is
// available. The ordinal must be within 0..Size()-1.
func (p *Pool) Lock(ordinal int) {
	p.locks[ordinal].Lock()
}

// Unlock releases the single lock with the given ordinal.
func (p *Pool) Unlock(ordinal int) {
	p.locks[ordinal].Unlock()
}

// AcquireSet deduplicates ordinals, sorts them ascending, and acquires each
// lock in that order. The returned release function unlocks in descending
// order and must be called exactly once, typically via defer so every exit
// path releases.
func (p *Pool) AcquireSet(ordinals []int) (release func()) {
	set := dedupeSorted(ordinals)
	for _, ord := range set {
		p.locks[ord].Lock()
	}
	return func() {
		for i := len(set) - 1; i >= 0; i-- {
			p.locks[set[i]].Unlock()
		}
	}
}

// AcquireAll drains the whole pool in ascending ordinal order, guaranteeing
// that no cell guarded by any pool member can be accessed until the returned
// release function runs.
func (p *Pool) AcquireAll() (release func()) {
	for i := range p.locks {
		p.locks[i].Lock()
	}
	return func() {
		for i := len(p.locks) - 1; i >= 0; i-- {
			p.locks[i].Unlock()
		}
	}
}

func dedupeSorted(ordinals []int) []int {
	seen := make(map[int]struct{}, len(ordinals))
	set := make([]int, 0, len(ordinals))
	for _, ord := range ordinals {
		if _, dup := seen[ord]; dup {
			continue
		}
		seen[ord] = struct{}{}
		set = append(set, ord)
	}
	sort.Ints(set)
	return set
}
