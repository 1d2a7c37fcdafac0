// Package buddy provides a binary buddy allocator for a single fixed,
// power-of-two sized memory region.
//
// # Overview
//
// The allocator is meant for freestanding environments: it never grows the
// region, never asks an operating system for memory and has no fallback
// allocator. Startup code hands it a region once, after which Allocate and
// Deallocate are legal for the rest of the program's life.
//
// A region of Size bytes is divided into Orders block size tiers:
//
//	order 0:        MinBlockSize bytes
//	order k:        MinBlockSize << k bytes
//	order Orders-1: Size bytes (the whole region)
//
// # Usage Example
//
//	lists := make([]buddy.Addr, 3)
//	h, err := buddy.New(0x1000, mem[:4096], lists, nil)
//	if err != nil {
//	    return err // *buddy.ConfigError, not recoverable
//	}
//
//	a, err := h.Allocate(100, 8) // 0x1000, a 1024-byte order 0 block
//	if err != nil {
//	    return err // ErrOutOfMemory, ErrAllocationTooLarge or ErrBadAlignment
//	}
//	copy(h.Bytes(a, 100), payload)
//
//	h.Deallocate(a, 100, 8) // same size and alignment as the Allocate call
//
// # Free Lists
//
// Each order has a singly linked list of free blocks. The list nodes live in
// the free blocks themselves: the first 8 bytes of a free block hold the
// address of the next free block of the same order. The list heads are stored
// in a caller supplied slice, so the allocator itself keeps no per-block
// metadata outside the region.
//
// Allocation takes the lowest non-empty order that fits and splits it down,
// always keeping the lower half. Deallocation recomputes the order from the
// caller's size and alignment and merges the block with its buddy
// (address XOR block size) for as long as the buddy is free.
//
// # Alignment
//
// Every block of order k is aligned to its own size, so a request is aligned
// by folding the alignment into the size before rounding up:
//
//	block = NextPow2(max(size, align, MinBlockSize))
//
// # Errors
//
// New reports configuration problems as *ConfigError wrapping
// ErrInvalidConfiguration; startup code that cannot continue uses MustNew.
// Allocate returns ErrAllocationTooLarge, ErrBadAlignment or ErrOutOfMemory.
// Passing Deallocate an address it did not hand out, a mismatched size or
// alignment, or freeing twice is undefined behavior and is not detected.
//
// # Thread Safety
//
// Heap instances are not thread-safe. Wrap them in Locked, or hold an
// equivalent lock around each entire call.
package buddy
