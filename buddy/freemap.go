package buddy

import "github.com/joshuapare/buddykit/internal/format"

// maxTrackedOrders bounds the free map at 2^24-1 bits (2MB).
const maxTrackedOrders = 24

// freeMap mirrors free-list membership with one bit per (order, block index).
// Bits for order k start at offsets[k]; order k has 2^(Orders-1-k) blocks.
// It lets Deallocate test a buddy in O(1) and only walk a free list when the
// buddy is known to be on it.
type freeMap struct {
	words    []uint64
	offsets  []uint64
	minShift int
}

func newFreeMap(r Region) *freeMap {
	offsets := make([]uint64, r.Orders)
	var total uint64
	for k := range r.Orders {
		offsets[k] = total
		total += 1 << uint(r.MaxOrder()-k)
	}
	return &freeMap{
		words:    make([]uint64, (total+63)/64),
		offsets:  offsets,
		minShift: format.Log2(r.MinBlockSize),
	}
}

func (m *freeMap) bit(off uint64, order int) (uint64, uint64) {
	i := m.offsets[order] + off>>uint(m.minShift+order)
	return i >> 6, 1 << (i & 63)
}

func (m *freeMap) set(off uint64, order int) {
	w, mask := m.bit(off, order)
	m.words[w] |= mask
}

func (m *freeMap) clear(off uint64, order int) {
	w, mask := m.bit(off, order)
	m.words[w] &^= mask
}

func (m *freeMap) isFree(off uint64, order int) bool {
	w, mask := m.bit(off, order)
	return m.words[w]&mask != 0
}

// count returns the number of set bits for order.
func (m *freeMap) count(r Region, order int) int {
	n := 0
	blocks := uint64(1) << uint(r.MaxOrder()-order)
	for i := range blocks {
		if m.isFree(i*r.BlockSize(order), order) {
			n++
		}
	}
	return n
}
