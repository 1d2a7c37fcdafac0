package buddy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 256-byte heap with 5 orders: 16, 32, 64, 128, 256.
func smallRegion(t *testing.T) Region {
	t.Helper()
	r, err := newRegion(0, 256, 5)
	require.NoError(t, err)
	require.Equal(t, uint64(16), r.MinBlockSize)
	return r
}

func TestAllocationSize(t *testing.T) {
	r := smallRegion(t)

	cases := []struct {
		size, align, want uint64
	}{
		// Simple allocations just round up to the next block size.
		{0, 1, 16},
		{1, 1, 16},
		{16, 1, 16},
		{17, 1, 32},
		{32, 32, 32},
		{256, 256, 256},
		// Aligned allocations use the alignment as block size.
		{16, 64, 64},
		{1, 128, 128},
		// Zero alignment means none.
		{20, 0, 32},
	}
	for _, tc := range cases {
		got, err := r.AllocationSize(tc.size, tc.align)
		require.NoError(t, err, "AllocationSize(%d, %d)", tc.size, tc.align)
		assert.Equal(t, tc.want, got, "AllocationSize(%d, %d)", tc.size, tc.align)
	}
}

func TestAllocationSizeRejects(t *testing.T) {
	r := smallRegion(t)

	_, err := r.AllocationSize(256, 512)
	require.ErrorIs(t, err, ErrAllocationTooLarge, "can't align beyond the region")

	_, err = r.AllocationSize(257, 1)
	require.ErrorIs(t, err, ErrAllocationTooLarge)

	_, err = r.AllocationSize(math.MaxUint64, 1)
	require.ErrorIs(t, err, ErrAllocationTooLarge, "rounding overflow")

	for _, align := range []uint64{3, 6, 24, 100} {
		_, err = r.AllocationSize(8, align)
		require.ErrorIs(t, err, ErrBadAlignment, "align %d", align)
	}
}

func TestOrderFor(t *testing.T) {
	r := smallRegion(t)

	cases := []struct {
		size, align uint64
		want        int
	}{
		{0, 1, 0},
		{1, 1, 0},
		{16, 16, 0},
		{32, 32, 1},
		{64, 64, 2},
		{128, 128, 3},
		{256, 256, 4},
	}
	for _, tc := range cases {
		got, err := r.OrderFor(tc.size, tc.align)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "OrderFor(%d, %d)", tc.size, tc.align)
	}

	_, err := r.OrderFor(512, 512)
	require.ErrorIs(t, err, ErrAllocationTooLarge)
}

func TestBlockSizeLaw(t *testing.T) {
	for _, tc := range []struct {
		size   uint64
		orders int
	}{
		{256, 5}, {4096, 3}, {1 << 20, 13}, {64, 1},
	} {
		r, err := newRegion(0, tc.size, tc.orders)
		require.NoError(t, err)
		for k := range r.Orders {
			assert.Equal(t, r.MinBlockSize*(uint64(1)<<uint(k)), r.BlockSize(k))
		}
		assert.Equal(t, tc.size, r.BlockSize(r.MaxOrder()))
		assert.Equal(t, tc.size, r.MinBlockSize<<uint(tc.orders-1))
	}
}

// Every block of the computed order is aligned to at least align.
func TestOrderForCoversAlignment(t *testing.T) {
	r, err := newRegion(0, 1<<16, 10)
	require.NoError(t, err)

	for size := uint64(0); size <= 4096; size += 37 {
		for align := uint64(1); align <= 1<<16; align <<= 1 {
			k, err := r.OrderFor(size, align)
			if err != nil {
				require.ErrorIs(t, err, ErrAllocationTooLarge)
				continue
			}
			bs := r.BlockSize(k)
			require.GreaterOrEqual(t, bs, size)
			require.GreaterOrEqual(t, bs, align)
			if k > 0 {
				require.Less(t, r.BlockSize(k-1), max(size, align, r.MinBlockSize),
					"order %d is not the smallest fit for (%d, %d)", k, size, align)
			}
		}
	}
}
