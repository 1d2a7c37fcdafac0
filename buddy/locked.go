package buddy

import (
	"io"
	"sync"
)

// Locked serializes every call on a Heap with a caller-supplied lock. The lock
// is held for the whole call, not just individual free-list operations,
// because a half-finished split or merge breaks the heap invariants.
//
// The lock is not reentrant: an interrupt handler that allocates while the
// same context holds it deadlocks (or corrupts the heap with a fake lock).
type Locked struct {
	mu sync.Locker
	h  *Heap
}

// NewLocked wraps h. A nil mu uses a fresh sync.Mutex.
func NewLocked(h *Heap, mu sync.Locker) *Locked {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Locked{mu: mu, h: h}
}

func (l *Locked) Allocate(size, align uint64) (Addr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.Allocate(size, align)
}

func (l *Locked) Deallocate(addr Addr, size, align uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.h.Deallocate(addr, size, align)
}

func (l *Locked) Reallocate(addr Addr, oldSize, newSize, align uint64) (Addr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.Reallocate(addr, oldSize, newSize, align)
}

// Region needs no lock; it never changes.
func (l *Locked) Region() Region {
	return l.h.region
}

func (l *Locked) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.Stats()
}

func (l *Locked) FreeBlocks() [][]Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.FreeBlocks()
}

func (l *Locked) Verify(live []Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.Verify(live)
}

func (l *Locked) PrintStats(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.h.PrintStats(w)
}
