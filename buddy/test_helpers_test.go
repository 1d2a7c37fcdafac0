package buddy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestHeap builds a heap over a fresh zeroed region.
func newTestHeap(t testing.TB, base Addr, size uint64, orders int, opts *Options) *Heap {
	t.Helper()
	h, err := New(base, make([]byte, size), make([]Addr, orders), opts)
	require.NoError(t, err)
	return h
}

// initialTable is the free-list table right after New: one block at the top order.
func initialTable(h *Heap) [][]Addr {
	table := make([][]Addr, h.Region().Orders)
	table[h.Region().MaxOrder()] = []Addr{h.Region().Base}
	return table
}

// mustAllocate allocates and fails the test on error.
func mustAllocate(t testing.TB, h *Heap, size, align uint64) Addr {
	t.Helper()
	a, err := h.Allocate(size, align)
	require.NoError(t, err, "Allocate(%d, %d)", size, align)
	return a
}
