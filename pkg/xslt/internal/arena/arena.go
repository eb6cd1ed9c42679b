// Package arena stores values in generational slots addressed by Ref.
//
// A Ref stays valid until the slot is removed. Removing a slot bumps its
// generation, so a stale Ref never resolves to whatever value later reuses
// the slot.
package arena

import "sync"

// Ref addresses one slot. The zero Ref is never issued.
type Ref struct {
	Index uint32
	Gen   uint32
}

// IsZero reports whether r is the zero Ref.
func (r Ref) IsZero() bool { return r == Ref{} }

// Pack encodes r in a single integer suitable for storing in native memory.
func (r Ref) Pack() uint64 {
	return uint64(r.Index)<<32 | uint64(r.Gen)
}

// Unpack is the inverse of Pack.
func Unpack(v uint64) Ref {
	return Ref{Index: uint32(v >> 32), Gen: uint32(v)}
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena is safe for concurrent use.
type Arena[T any] struct {
	mu       sync.Mutex
	slots    []slot[T]
	freeList []uint32
	live     int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{
		slots:    make([]slot[T], 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Insert stores v in a free slot and returns its Ref.
func (a *Arena[T]) Insert(v T) Ref {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.live++
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		s := &a.slots[idx-1]
		s.value = v
		s.live = true
		return Ref{Index: idx, Gen: s.gen}
	}

	a.slots = append(a.slots, slot[T]{value: v, gen: 1, live: true})
	return Ref{Index: uint32(len(a.slots)), Gen: 1}
}

func (a *Arena[T]) lookup(r Ref) *slot[T] {
	if r.Index == 0 || int(r.Index) > len(a.slots) {
		return nil
	}
	s := &a.slots[r.Index-1]
	if !s.live || s.gen != r.Gen {
		return nil
	}
	return s
}

// Get returns the value stored at r.
func (a *Arena[T]) Get(r Ref) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.lookup(r)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Swap stores v at r and returns the value it replaced. The Ref stays valid.
func (a *Arena[T]) Swap(r Ref, v T) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.lookup(r)
	if s == nil {
		var zero T
		return zero, false
	}
	old := s.value
	s.value = v
	return old, true
}

// Remove frees the slot at r and returns the value it held.
func (a *Arena[T]) Remove(r Ref) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero T
	s := a.lookup(r)
	if s == nil {
		return zero, false
	}
	old := s.value
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.freeList = append(a.freeList, r.Index)
	a.live--
	return old, true
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}
