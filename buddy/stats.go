package buddy

import (
	"fmt"
	"io"
)

// Stats holds allocator counters and a summary of the free lists.
type Stats struct {
	AllocateCalls   int    // Total Allocate calls
	DeallocateCalls int    // Total Deallocate calls
	Rejected        int    // Requests failing ErrAllocationTooLarge or ErrBadAlignment
	OutOfMemory     int    // Requests failing ErrOutOfMemory
	Splits          int    // Blocks split in half
	Merges          int    // Buddy pairs merged
	BytesInUse      uint64 // Bytes in outstanding blocks (block sizes, not request sizes)

	FreeBytes  uint64 // Bytes on all free lists
	FreeBlocks []int  // Free block count per order
}

// Stats returns the counters and walks the free lists for the summary.
func (h *Heap) Stats() Stats {
	s := h.stats
	s.FreeBlocks = make([]int, h.region.Orders)
	s.FreeBytes = 0
	for k, list := range h.FreeBlocks() {
		s.FreeBlocks[k] = len(list)
		s.FreeBytes += uint64(len(list)) * h.region.BlockSize(k)
	}
	return s
}

// FreeBlocks returns a copy of every free list, head first, indexed by order.
func (h *Heap) FreeBlocks() [][]Addr {
	out := make([][]Addr, h.region.Orders)
	for k := range out {
		out[k], _ = h.lists.snapshot(k, h.maxBlocks(k))
	}
	return out
}

// maxBlocks is how many blocks of order k fit in the region.
func (h *Heap) maxBlocks(order int) uint64 {
	return uint64(1) << uint(h.region.MaxOrder()-order)
}

// PrintStats writes a short human-readable summary to w.
func (h *Heap) PrintStats(w io.Writer) {
	s := h.Stats()
	fmt.Fprintf(w, "region:      %s\n", h.region)
	fmt.Fprintf(w, "allocate:    %d calls, %d rejected, %d out of memory\n", s.AllocateCalls, s.Rejected, s.OutOfMemory)
	fmt.Fprintf(w, "deallocate:  %d calls\n", s.DeallocateCalls)
	fmt.Fprintf(w, "splits:      %d, merges: %d\n", s.Splits, s.Merges)
	fmt.Fprintf(w, "bytes:       %d in use, %d free\n", s.BytesInUse, s.FreeBytes)
	for k, n := range s.FreeBlocks {
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "  order %2d (%d bytes): %d free\n", k, h.region.BlockSize(k), n)
	}
}
