// Package format describes the on-memory layout of free blocks inside a
// managed region and the power-of-two arithmetic the allocator is built on.
// It is the only place that reinterprets region bytes as typed data.
package format

const (
	// LinkSize is the size of the link word at the start of every free block.
	// Layout (little-endian):
	//   0x00  next free block address of the same order, or NilLink
	LinkSize = 8

	// NilLink terminates a free list. All ones is never a valid block
	// address because blocks are aligned to at least LinkSize.
	NilLink = ^uint64(0)

	// MaxOrders bounds the number of block size tiers for a 64-bit address space.
	MaxOrders = 64
)
