package buddy

import (
	"fmt"
	"sort"
)

type span struct {
	addr  Addr
	order int
	free  bool
}

// Verify checks the free lists against the heap invariants:
//   - every free block lies in the region and is aligned to its block size
//   - no free list is cyclic
//   - no two free blocks are buddies (they would have been merged)
//   - no two blocks overlap
//   - the free map, when enabled, agrees with the lists
//
// When live is non-nil it must hold every outstanding allocation, and Verify
// additionally checks that free and live blocks tile the region exactly.
func (h *Heap) Verify(live []Block) error {
	r := h.region
	var spans []span
	freeSet := make(map[Addr]int)

	for k := range r.Orders {
		list, ok := h.lists.snapshot(k, h.maxBlocks(k))
		if !ok {
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("order %d list longer than the region allows (cycle?)", k),
				Addr:    NilAddr,
			}
		}
		for _, a := range list {
			if !r.Contains(a) {
				return &ValidationError{Type: "FreeList", Message: fmt.Sprintf("order %d block outside region %s", k, r), Addr: a}
			}
			if r.offset(a)%r.BlockSize(k) != 0 {
				return &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("order %d block not aligned to %d", k, r.BlockSize(k)),
					Addr:    a,
				}
			}
			if prev, dup := freeSet[a]; dup {
				return &ValidationError{
					Type:    "FreeList",
					Message: "block listed twice",
					Addr:    a,
					Details: map[string]any{"orders": []int{prev, k}},
				}
			}
			freeSet[a] = k
			spans = append(spans, span{addr: a, order: k, free: true})
		}
		if h.free != nil {
			if n := h.free.count(r, k); n != len(list) {
				return &ValidationError{
					Type:    "FreeMap",
					Message: fmt.Sprintf("order %d: map has %d free blocks, list has %d", k, n, len(list)),
					Addr:    NilAddr,
				}
			}
		}
	}

	for a, k := range freeSet {
		if k == r.MaxOrder() {
			continue
		}
		if bk, ok := freeSet[h.buddyOf(a, k)]; ok && bk == k {
			return &ValidationError{
				Type:    "Coalesce",
				Message: fmt.Sprintf("order %d block and its buddy are both free", k),
				Addr:    min(a, h.buddyOf(a, k)),
			}
		}
	}

	for _, b := range live {
		k, err := r.OrderFor(b.Size, b.Align)
		if err != nil {
			return &ValidationError{Type: "Live", Message: err.Error(), Addr: b.Addr}
		}
		if !r.Contains(b.Addr) || r.offset(b.Addr)%r.BlockSize(k) != 0 {
			return &ValidationError{
				Type:    "Live",
				Message: fmt.Sprintf("allocation is not an order %d block of %s", k, r),
				Addr:    b.Addr,
			}
		}
		spans = append(spans, span{addr: b.Addr, order: k})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].addr < spans[j].addr })

	next := r.Base
	for i, s := range spans {
		end := s.addr + Addr(r.BlockSize(s.order))
		if i > 0 && s.addr < next {
			return &ValidationError{
				Type:    "Overlap",
				Message: fmt.Sprintf("order %d block overlaps the block ending at 0x%X", s.order, uint64(next)),
				Addr:    s.addr,
				Details: map[string]any{"free": s.free},
			}
		}
		if live != nil && s.addr != next {
			return &ValidationError{
				Type:    "Tiling",
				Message: fmt.Sprintf("gap of %d bytes before block", uint64(s.addr-next)),
				Addr:    next,
			}
		}
		next = end
	}
	if live != nil && next != r.End() {
		return &ValidationError{
			Type:    "Tiling",
			Message: fmt.Sprintf("blocks end at 0x%X, region ends at 0x%X", uint64(next), uint64(r.End())),
			Addr:    next,
		}
	}
	return nil
}
