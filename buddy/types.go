package buddy

import "github.com/joshuapare/buddykit/internal/format"

// Addr is an address in the managed address space.
type Addr uint64

// NilAddr marks an empty free list and failed allocations.
const NilAddr = Addr(format.NilLink)

// Allocator is the allocation surface consumed by higher-level facilities.
//
// Implementations:
//   - Heap: the allocator itself, single-threaded
//   - Locked: a Heap guarded by a caller-supplied lock
type Allocator interface {
	// Allocate returns the address of a block of at least size bytes
	// aligned to align.
	Allocate(size, align uint64) (Addr, error)

	// Deallocate returns a block to the heap. size and align must equal
	// the values passed to the Allocate call that produced addr.
	Deallocate(addr Addr, size, align uint64)
}

// Block is an outstanding allocation as the caller knows it.
type Block struct {
	Addr  Addr
	Size  uint64
	Align uint64
}

var (
	_ Allocator = (*Heap)(nil)
	_ Allocator = (*Locked)(nil)
)
